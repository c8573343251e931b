// Package config resolves the settings of a dispatchgen run.
//
// Values are taken, from lowest to highest precedence, from built-in
// defaults, a dispatchgen.yaml file, DISPATCHGEN_* environment variables and
// command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the base name of the config file looked up in the working
// directory and in the package directory.
const FileName = "dispatchgen"

// EnvPrefix prefixes every environment variable read.
const EnvPrefix = "DISPATCHGEN"

// Config holds the settings of one run.
type Config struct {
	// Dir is the directory of the package to read.
	Dir string `mapstructure:"dir"`

	// Types are the names of the types to generate for.
	Types []string `mapstructure:"types"`

	// Output is the path of the generated file, relative to Dir. When empty
	// a name derived from the type is used.
	Output string `mapstructure:"output"`

	// Inline emits a standalone unit holding the original declarations
	// followed by the generated ones.
	Inline bool `mapstructure:"inline"`

	// Stdout writes generated code to standard output instead of Dir.
	Stdout bool `mapstructure:"stdout"`

	Verbose bool `mapstructure:"verbose"`
	JSONLog bool `mapstructure:"json_log"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dir", ".")
	v.SetDefault("types", []string{})
	v.SetDefault("output", "")
	v.SetDefault("inline", false)
	v.SetDefault("stdout", false)
	v.SetDefault("verbose", false)
	v.SetDefault("json_log", false)
}

// New returns a viper instance wired to the environment and, if non-nil,
// to flags. Flags are bound by their names with dashes turned into
// underscores.
func New(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if f.Name == "type" {
				key = "types"
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}
	return v, nil
}

// Load reads the config file, if any, and resolves the settings.
//
// When path is set the file must exist. Otherwise dispatchgen.yaml is
// looked up in each of searchDirs and a missing file is not an error.
func Load(v *viper.Viper, path string, searchDirs ...string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate reports settings that cannot be used together.
func (c *Config) Validate() error {
	if len(c.Types) == 0 {
		return errors.New("no types given; use --type")
	}
	for _, t := range c.Types {
		if t == "" {
			return errors.New("empty type name")
		}
	}
	return nil
}
