package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25
)

// ConfigNames are the file names looked up during auto-discovery, in order.
var ConfigNames = []string{"zodgen.yaml", "zodgen.yml"}

// Config represents the zodgen configuration from zodgen.yaml.
type Config struct {
	// Input files or directories holding .yaml, .json and .graphql documents.
	Inputs []string `mapstructure:"inputs" yaml:"inputs"`

	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Generate GenerateConfig `mapstructure:"generate" yaml:"generate"`
	Watch    WatchConfig    `mapstructure:"watch" yaml:"watch"`
}

// OutputConfig holds where and how the module is written.
type OutputConfig struct {
	Dir      string `mapstructure:"dir" yaml:"dir"`
	Filename string `mapstructure:"filename" yaml:"filename"`
	Header   string `mapstructure:"header" yaml:"header"`
	Cache    bool   `mapstructure:"cache" yaml:"cache"`
}

// GenerateConfig holds emission settings.
type GenerateConfig struct {
	NamePolicy    string `mapstructure:"name_policy" yaml:"name_policy"`
	ZodModule     string `mapstructure:"zod_module" yaml:"zod_module"`
	Width         int    `mapstructure:"width" yaml:"width"`
	EnumsAsUnions bool   `mapstructure:"enums_as_unions" yaml:"enums_as_unions"`
}

// WatchConfig holds watch command settings.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered. Relative paths in a config file are resolved
// against the directory holding it.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("ZODGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	if configPath != "" {
		dir := filepath.Dir(configPath)
		if fromFile(v, "inputs") {
			cfg.Inputs = relativeTo(dir, cfg.Inputs)
		}
		if fromFile(v, "output.dir") {
			cfg.Output.Dir = relativeTo(dir, []string{cfg.Output.Dir})[0]
		}
	}
	if cfg.Watch.Debounce < 0 {
		return nil, configPath, fmt.Errorf("watch.debounce must not be negative: %s", cfg.Watch.Debounce)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("inputs", []string{"schemas"})

	v.SetDefault("output.dir", "zod")
	v.SetDefault("output.filename", "models.ts")
	v.SetDefault("output.header", "")
	v.SetDefault("output.cache", false)

	v.SetDefault("generate.name_policy", "camel")
	v.SetDefault("generate.zod_module", "zod")
	v.SetDefault("generate.width", 80)
	v.SetDefault("generate.enums_as_unions", false)

	v.SetDefault("watch.debounce", 200*time.Millisecond)
}

// fromFile reports whether the value of key comes from the config file
// rather than the environment.
func fromFile(v *viper.Viper, key string) bool {
	_, env := os.LookupEnv("ZODGEN_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	return v.InConfig(key) && !env
}

func relativeTo(dir string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if p == "" || filepath.IsAbs(p) {
			out[i] = p
			continue
		}
		out[i] = filepath.Join(dir, p)
	}
	return out
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for zodgen.yaml or zodgen.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Stop at the repository root.
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// LogLevel maps the -v count and -q flag to a slog level.
// Quiet wins over verbose.
func LogLevel(verbose int, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbose >= 2:
		return slog.LevelDebug
	case verbose == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// NewLogger returns a text logger writing to w at the level selected by
// the verbosity flags.
func NewLogger(w io.Writer, verbose int, quiet bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: LogLevel(verbose, quiet)}))
}
