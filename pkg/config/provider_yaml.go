package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file. Keys missing
// from the file keep their Default values.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Chart struct {
			Debug      bool   `yaml:"debug"`
			AnchorDate string `yaml:"anchor_date"`
			RulerEvery int    `yaml:"ruler_every"`
		} `yaml:"chart"`
		Storage struct {
			SQLite *struct {
				Path string `yaml:"path"`
			} `yaml:"sqlite,omitempty"`
			Postgres *struct {
				ConnectionString string `yaml:"connection_string"`
			} `yaml:"postgres,omitempty"`
		} `yaml:"storage,omitempty"`
		Export struct {
			Format string `yaml:"format"`
			Path   string `yaml:"path"`
		} `yaml:"export,omitempty"`
		Log struct {
			Debug      bool   `yaml:"debug"`
			File       string `yaml:"file"`
			MaxSizeMB  int    `yaml:"max_size_mb"`
			MaxBackups int    `yaml:"max_backups"`
		} `yaml:"log,omitempty"`
	}

	err = yaml.UnmarshalStrict(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := Default()
	config.Chart.Debug = yamlConfig.Chart.Debug
	config.Chart.AnchorDate = yamlConfig.Chart.AnchorDate
	if yamlConfig.Chart.RulerEvery != 0 {
		config.Chart.RulerEvery = yamlConfig.Chart.RulerEvery
	}

	if yamlConfig.Storage.SQLite != nil {
		config.Storage.SQLite = &SQLiteData{Path: yamlConfig.Storage.SQLite.Path}
	}
	if yamlConfig.Storage.Postgres != nil {
		config.Storage.Postgres = &PostgresData{
			ConnectionString: yamlConfig.Storage.Postgres.ConnectionString,
		}
	}

	config.Export = ExportData{
		Format: yamlConfig.Export.Format,
		Path:   yamlConfig.Export.Path,
	}

	config.Log.Debug = yamlConfig.Log.Debug
	config.Log.File = yamlConfig.Log.File
	if yamlConfig.Log.MaxSizeMB != 0 {
		config.Log.MaxSizeMB = yamlConfig.Log.MaxSizeMB
	}
	if yamlConfig.Log.MaxBackups != 0 {
		config.Log.MaxBackups = yamlConfig.Log.MaxBackups
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

// GetChartConfig returns chart configuration
func (y *YAMLProvider) GetChartConfig() (*ChartData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Chart, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML files
func (y *YAMLProvider) Close() error {
	return nil
}
