package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/macvmio/machinepull/pkg/appconfig"
)

func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".machinepull"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("MACHINEPULL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: ignoring config file '%v': %v\n", viper.ConfigFileUsed(), err)
		}
	}
}

// loadConfig materializes the merged configuration (flags over environment
// over config file over defaults) into one immutable value.
func loadConfig() (appconfig.Config, error) {
	cfg := appconfig.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config '%v': %w", viper.ConfigFileUsed(), err)
	}
	if cfg.ImageRoot == "" {
		return cfg, errors.New("undefined image root directory")
	}
	return cfg, nil
}
