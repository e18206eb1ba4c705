package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "UGL_"

// Options selects the optional layers. Empty paths are skipped; a missing
// .env file is ignored, a missing YAML file is an error.
type Options struct {
	File    string
	EnvFile string
}

// Load builds the configuration from defaults, the optional files and the
// process environment, then validates it.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	envToPath := envMappings(k.Keys())

	if opts.File != "" {
		data, err := readYAML(opts.File)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawMap(data), nil); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", opts.File, err)
		}
	}

	if opts.EnvFile != "" {
		vars, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", opts.EnvFile, err)
		}
		if len(vars) > 0 {
			environ := make([]string, 0, len(vars))
			for key, value := range vars {
				environ = append(environ, key+"="+value)
			}
			if err := k.Load(envProvider(envToPath, func() []string { return environ }), nil); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", opts.EnvFile, err)
			}
		}
	}

	if err := k.Load(envProvider(envToPath, os.Environ), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags and the rules spanning several fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	enabled := cfg.Sources.Enabled()
	if len(enabled) == 0 {
		return fmt.Errorf("configuration validation failed: no source is enabled")
	}
	for _, src := range enabled {
		if src.URL == "" {
			return fmt.Errorf("configuration validation failed: source %s has no url", src.Kind)
		}
	}
	return nil
}

// EnvVar returns the environment variable that overrides a dotted key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// envMappings maps every known key's environment variable to its path. Keys
// containing underscores make a plain underscore-to-dot transform ambiguous.
func envMappings(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[EnvVar(key)] = key
	}
	return out
}

func envProvider(envToPath map[string]string, environ func() []string) *env.Env {
	return env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envToPath[key]
			if !ok {
				return "", nil
			}
			return path, value
		},
		EnvironFunc: environ,
	})
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	return filterNilValues(out), nil
}

// filterNilValues drops empty YAML keys so they don't erase defaults.
func filterNilValues(m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			if filtered := filterNilValues(nested); len(filtered) > 0 {
				result[k] = filtered
			}
			continue
		}
		result[k] = v
	}
	return result
}

type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("ReadBytes not implemented")
}
