package config

import (
	"fmt"
	"time"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetChartConfig() (*ChartData, error)
	GetStorageConfig() (*StorageData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Chart   ChartData   `json:"chart"`
	Storage StorageData `json:"storage,omitempty"`
	Export  ExportData  `json:"export,omitempty"`
	Log     LogData     `json:"log,omitempty"`
}

// ChartData holds rendering options
type ChartData struct {
	Debug      bool   `json:"debug"`
	AnchorDate string `json:"anchor_date,omitempty"`
	RulerEvery int    `json:"ruler_every,omitempty"`
}

// StorageData holds the configuration for the storage backends. At most one
// backend is used per run; SQLite wins when both are set.
type StorageData struct {
	SQLite   *SQLiteData   `json:"sqlite,omitempty"`
	Postgres *PostgresData `json:"postgres,omitempty"`
}

type SQLiteData struct {
	Path string `json:"path"`
}

type PostgresData struct {
	ConnectionString string `json:"connection_string"`
}

// ExportData selects where and how a machine-readable copy is written
type ExportData struct {
	Format string `json:"format,omitempty"`
	Path   string `json:"path,omitempty"`
}

// LogData holds logger settings
type LogData struct {
	Debug      bool   `json:"debug"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *ConfigData {
	return &ConfigData{
		Chart: ChartData{RulerEvery: 7},
		Log:   LogData{MaxSizeMB: 10, MaxBackups: 3},
	}
}

// Anchor parses AnchorDate. An empty value yields the zero time.
func (c ChartData) Anchor() (time.Time, error) {
	if c.AnchorDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.AnchorDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid anchor_date %q: %w", c.AnchorDate, err)
	}
	return t, nil
}

// Validate checks values that cannot be caught while decoding.
func (c *ConfigData) Validate() error {
	if _, err := c.Chart.Anchor(); err != nil {
		return err
	}
	if c.Chart.RulerEvery < 0 {
		return fmt.Errorf("ruler_every must not be negative, got %d", c.Chart.RulerEvery)
	}
	switch c.Export.Format {
	case "", "json", "msgpack":
	default:
		return fmt.Errorf("unsupported export format %q", c.Export.Format)
	}
	if c.Storage.SQLite != nil && c.Storage.SQLite.Path == "" {
		return fmt.Errorf("storage.sqlite.path is required")
	}
	if c.Storage.Postgres != nil && c.Storage.Postgres.ConnectionString == "" {
		return fmt.Errorf("storage.postgres.connection_string is required")
	}
	return nil
}
