package cfg

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// loadConfigFile loads in the preset configuration file.
func loadConfigFile(file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("failed check for config file path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config file %q is a directory, should be a file", file)
	}

	viper.SetConfigFile(file)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	return nil
}
