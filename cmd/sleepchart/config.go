package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/sleepchart/pkg/config"
)

const defaultConfigFile = "sleepchart.yaml"

// loadConfig reads cfgFile. With no file named, defaultConfigFile is used
// when it exists and built-in defaults otherwise.
func loadConfig(cfgFile string) (*config.ConfigData, error) {
	explicit := cfgFile != ""
	if !explicit {
		cfgFile = defaultConfigFile
	}
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider = config.NewYAMLProvider(filename)
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("error reading config file. Did you pass the --config flag? Run with -h for help: %w", err)
	}

	return cfgData, nil
}
