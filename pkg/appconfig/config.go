package appconfig

// Config is the application configuration merged from the config file,
// environment and command line flags. It is materialized once per
// invocation and treated as read-only afterwards.
type Config struct {
	ImageRoot string `mapstructure:"image_root"`
	Verify    string `mapstructure:"verify"`
	Verbose   bool   `mapstructure:"verbose"`
}

// Default returns the built-in configuration: the machine image pool
// location and full signature verification.
func Default() Config {
	return Config{
		ImageRoot: "/var/lib/machines",
		Verify:    "signature",
	}
}
