package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the HTTP layer settings. Values come from an optional
// wojak.yaml config file and WOJAK_* environment variables, environment
// winning.
type Config struct {
	Addr           string        `mapstructure:"addr"`
	TemplateDir    string        `mapstructure:"template_dir"`
	CascadeDir     string        `mapstructure:"cascade_dir"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Debug          bool          `mapstructure:"debug"`
}

// LoadConfig reads the server configuration.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("template_dir", "assets/templates")
	v.SetDefault("cascade_dir", "assets/cascades")
	v.SetDefault("max_upload_bytes", 16<<20)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("debug", false)

	v.SetConfigName("wojak")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/wojak")

	v.SetEnvPrefix("WOJAK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("could not read the config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse the configuration: %w", err)
	}
	return cfg, nil
}
