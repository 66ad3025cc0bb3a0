package config

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/moefra/zako/pkg/host"
	"github.com/moefra/zako/pkg/version"
)

// Config describes all configuration options
type Config struct {
	Log struct {
		Level string `default:"info" usage:"Minimum level of printed messages (trace, debug, info, warn or error)"`
		JSON  bool   `default:"false" usage:"Output JSONND instead of pretty console messages"`
	}
	Engine struct {
		Version  string `default:"0.1.0" usage:"zako version reported to scripts"`
		MaxSteps uint64 `default:"0" usage:"Maximum number of computation steps per script, 0 disables the limit"`
		Workers  int    `default:"4" usage:"Number of scripts evaluated concurrently by check"`
	}
	Manifest string `default:"zako.yaml" usage:"File name of the package manifest"`
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object.
// Flags are handled by the CLI.
func Loader(files ...string) (*Config, *aconfig.Loader) {
	if len(files) == 0 {
		files = []string{"zako.toml"}
	}

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ZAKO",
		SkipFlags: true,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the configuration from files and the environment and validates it.
func Load(files ...string) (*Config, error) {
	cfg, loader := Loader(files...)
	if err := loader.Load(); err != nil {
		return nil, eris.Wrap(err, "failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	if _, err := version.Parse(cfg.Engine.Version); err != nil {
		return eris.Wrapf(err, `Invalid value for engine.version`)
	}

	if cfg.Engine.Workers < 1 {
		return eris.Errorf(`Invalid value for engine.workers: %d (must be at least 1)`, cfg.Engine.Workers)
	}

	if cfg.Manifest == "" {
		cfg.Manifest = host.DefaultManifestName
	}
	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
