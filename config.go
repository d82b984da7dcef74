package sweeptable

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the file/environment configuration of a measurement setup.
type Config struct {
	DataDir          string  `mapstructure:"data_dir"`
	DefaultPrecision int     `mapstructure:"default_precision"`
	Generator        string  `mapstructure:"generator"` // datetime or incremental
	Basename         string  `mapstructure:"basename"`  // incremental generator file prefix, relative to DataDir
	DateSubdir       bool    `mapstructure:"date_subdir"`
	TimeSubdir       bool    `mapstructure:"time_subdir"`
	Tolerance        float64 `mapstructure:"tolerance"`
}

// LoadConfig reads the configuration from file and SWEEPTABLE_*
// environment variables, which take precedence. If file is empty, only
// defaults and the environment are used.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", ".")
	v.SetDefault("default_precision", 12)
	v.SetDefault("generator", "datetime")
	v.SetDefault("basename", "data")
	v.SetDefault("date_subdir", true)
	v.SetDefault("time_subdir", true)
	v.SetDefault("tolerance", 0.0)

	v.SetEnvPrefix("sweeptable")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, ioError(err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return &c, nil
}

// Options converts the configuration to store options.
func (c *Config) Options() (*Options, error) {
	o := &Options{
		DefaultPrecision: c.DefaultPrecision,
		Tolerance:        c.Tolerance,
	}

	switch strings.ToLower(c.Generator) {
	case "", "datetime":
		o.Generator = &DateTimeGenerator{
			DataDir:    c.DataDir,
			DateSubdir: c.DateSubdir,
			TimeSubdir: c.TimeSubdir,
		}
	case "incremental":
		o.Generator = NewIncrementalGenerator(filepath.Join(c.DataDir, c.Basename), 1)
	default:
		return nil, fmt.Errorf("%w: unknown generator %q", ErrConfig, c.Generator)
	}
	return o, nil
}
