package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. REPEXPORT_EXPORT_PRUNE.
const EnvPrefix = "REPEXPORT"

// ConfigName is the config file looked up in the working directory, with any
// extension viper understands (yml, yaml, json, toml).
const ConfigName = "repexport-config"

// Config represents the structure of the configuration file
type Config struct {
	Root      string          `mapstructure:"root"`
	Theme     string          `mapstructure:"theme" validate:"required"`
	Verbosity int             `mapstructure:"verbose" validate:"gte=0"`
	Structure StructureConfig `mapstructure:"structure"`
	Export    ExportConfig    `mapstructure:"export"`

	// ConfigFile is the file the values were read from, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// StructureConfig configures the structure snapshot.
type StructureConfig struct {
	Output         string   `mapstructure:"output" validate:"required"`
	Exclude        []string `mapstructure:"exclude"`
	ExcludeFrom    string   `mapstructure:"exclude_from"`
	HonorGitignore bool     `mapstructure:"honor_gitignore"`
}

// ExportConfig configures the tiddler export.
type ExportConfig struct {
	OutputDir     string `mapstructure:"output_dir" validate:"required"`
	HashFile      string `mapstructure:"hash_file" validate:"required"`
	TagDir        string `mapstructure:"tag_dir" validate:"required"`
	HashAlgorithm string `mapstructure:"hash_algorithm" validate:"oneof=sha1 xxh3"`
	Prune         bool   `mapstructure:"prune"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Theme: "dracula",
	Structure: StructureConfig{
		Output: "estructura.txt",
	},
	Export: ExportConfig{
		OutputDir:     filepath.Join("rep-export", "tiddlers-export"),
		HashFile:      filepath.Join("rep-export", ".hashes.json"),
		TagDir:        filepath.Join("rep-export", "tiddler_tag_doc"),
		HashAlgorithm: "sha1",
		Prune:         true,
	},
}

// flagKeys maps config keys to the cobra flags that override them. Flags that a
// command does not define are skipped.
var flagKeys = map[string]string{
	"root":                      "root",
	"theme":                     "theme",
	"verbose":                   "verbose",
	"structure.output":          "output",
	"structure.exclude":         "exclude",
	"structure.exclude_from":    "exclude-from",
	"structure.honor_gitignore": "honor-gitignore",
	"export.hash_algorithm":     "hash-algorithm",
	"export.prune":              "prune",
}

// LoadConfigs builds the configuration for cmd: defaults, then the config
// file, then .env and REPEXPORT_* variables, then flags set on the command line.
func LoadConfigs(cmd *cobra.Command, cwd string) (*Config, error) {
	if err := loadDotEnv(cwd); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfgFile := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			cfgFile = flag.Value.String()
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(cwd)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file in %s: %w", cwd, err)
			}
		}
	}

	if cmd != nil {
		if err := bindFlags(v, cmd); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()
	config.Export.HashAlgorithm = strings.ToLower(strings.TrimSpace(config.Export.HashAlgorithm))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func loadDotEnv(cwd string) error {
	err := godotenv.Load(filepath.Join(cwd, ".env"))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load .env: %w", err)
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("root", DefaultConfig.Root)
	v.SetDefault("theme", DefaultConfig.Theme)
	v.SetDefault("verbose", DefaultConfig.Verbosity)
	v.SetDefault("structure.output", DefaultConfig.Structure.Output)
	v.SetDefault("structure.exclude", []string{})
	v.SetDefault("structure.exclude_from", DefaultConfig.Structure.ExcludeFrom)
	v.SetDefault("structure.honor_gitignore", DefaultConfig.Structure.HonorGitignore)
	v.SetDefault("export.output_dir", DefaultConfig.Export.OutputDir)
	v.SetDefault("export.hash_file", DefaultConfig.Export.HashFile)
	v.SetDefault("export.tag_dir", DefaultConfig.Export.TagDir)
	v.SetDefault("export.hash_algorithm", DefaultConfig.Export.HashAlgorithm)
	v.SetDefault("export.prune", DefaultConfig.Export.Prune)
}

// bindFlags lets flags given on the command line override config values.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Validate checks the decoded values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ResolvePath anchors a configured path at root unless it is already absolute.
func ResolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a configuration file (YAML, JSON or TOML).")
	rootCmd.PersistentFlags().String("root", "", "Repository root. Defaults to the enclosing git repository or the current directory.")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log detail (-v info, -vv debug).")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Chroma theme used for previews (e.g., 'dracula', 'monokai', 'github').")
}
