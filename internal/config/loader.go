package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/k6convert/internal/collection"
	"github.com/wesleyorama2/k6convert/internal/imports"
)

// EnvPrefix prefixes environment variables that override settings
const EnvPrefix = "K6CONVERT"

// ConfigName is the settings file looked up in the working directory
const ConfigName = ".k6convert"

// Setting keys
const (
	KeyMaxRedirects = "max-redirects"
	KeyIterations   = "iterations"
	KeyVUs          = "vus"
	KeyDuration     = "duration"
	KeyLibs         = "libs"
	KeyEnvironment  = "environment"
	KeyGlobal       = "global"
)

// DefaultMaxRedirects is the redirect limit written to the script options
const DefaultMaxRedirects = 4

// Settings control the generated script beyond what the collection holds
type Settings struct {
	MaxRedirects int    `mapstructure:"max-redirects"`
	Iterations   int    `mapstructure:"iterations"`
	VUs          int    `mapstructure:"vus"`
	Duration     string `mapstructure:"duration"`
	Libs         string `mapstructure:"libs"`

	// EnvironmentFile and GlobalFile name Postman environment and globals
	// exports whose variables are written to the initial block
	EnvironmentFile string `mapstructure:"environment"`
	GlobalFile      string `mapstructure:"global"`

	Environment collection.Variables `mapstructure:"-"`
	Globals     collection.Variables `mapstructure:"-"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		MaxRedirects: DefaultMaxRedirects,
		Libs:         imports.DefaultLibs,
	}
}

// SetDefaults registers the default value of every setting on v
func SetDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault(KeyMaxRedirects, d.MaxRedirects)
	v.SetDefault(KeyIterations, d.Iterations)
	v.SetDefault(KeyVUs, d.VUs)
	v.SetDefault(KeyDuration, d.Duration)
	v.SetDefault(KeyLibs, d.Libs)
	v.SetDefault(KeyEnvironment, "")
	v.SetDefault(KeyGlobal, "")
}

// NewViper creates a viper instance reading defaults, an optional settings
// file, and K6CONVERT_* environment variables. When configFile is empty a
// .k6convert.yaml in the working directory is used if present.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading settings file")
		}
	}
	return v, nil
}

// Load reads settings from v, loads the referenced environment and globals
// files, and validates the result
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Wrap(err, "error parsing settings")
	}

	if errs := ValidateSettings(s); len(errs) > 0 {
		return Settings{}, errors.WithHint(
			errors.Newf("invalid settings: %s", joinValidationErrors(errs)),
			"check the command flags, K6CONVERT_* variables and .k6convert.yaml",
		)
	}

	// Word forms like "1 minute" are written to the script in Go form
	if s.Duration != "" {
		if _, err := time.ParseDuration(s.Duration); err != nil {
			d, _ := parseDurationString(s.Duration)
			s.Duration = d.String()
		}
	}

	if s.EnvironmentFile != "" {
		vars, err := LoadVariables(s.EnvironmentFile)
		if err != nil {
			return Settings{}, err
		}
		s.Environment = vars
	}
	if s.GlobalFile != "" {
		vars, err := LoadVariables(s.GlobalFile)
		if err != nil {
			return Settings{}, err
		}
		s.Globals = vars
	}
	return s, nil
}

// LoadCollection reads a collection file. YAML files (.yaml, .yml) are
// re-encoded as JSON so the decoder sees a single format.
func LoadCollection(path string) ([]byte, error) {
	data, err := readFile(path, "collection")
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlToJSON(data, path)
	default:
		return data, nil
	}
}

// variableFile is a Postman environment or globals export
type variableFile struct {
	Name   string `json:"name"`
	Values []struct {
		Key     string          `json:"key"`
		Value   json.RawMessage `json:"value"`
		Enabled *bool           `json:"enabled"`
	} `json:"values"`
}

// LoadVariables reads the enabled variables of a Postman environment or
// globals export, in file order
func LoadVariables(path string) (collection.Variables, error) {
	data, err := readFile(path, "variables")
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if data, err = yamlToJSON(data, path); err != nil {
			return nil, err
		}
	}

	var file variableFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "error parsing variables file %s", path)
	}

	var vars collection.Variables
	for _, entry := range file.Values {
		if entry.Key == "" || (entry.Enabled != nil && !*entry.Enabled) {
			continue
		}
		vars = append(vars, collection.Variable{Key: entry.Key, Value: valueText(entry.Value)})
	}
	return vars, nil
}

func readFile(path, kind string) ([]byte, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Newf("%s file not found: %s", kind, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s file", kind)
	}
	return data, nil
}

func yamlToJSON(data []byte, path string) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "error parsing YAML file %s", path)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "error converting %s to JSON", path)
	}
	return out, nil
}

// valueText renders a variable value as text
func valueText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return ""
	}
	return trimmed
}

// parseDurationString parses duration strings like "30s", "5m", "1h"
func parseDurationString(duration string) (time.Duration, error) {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0, errors.New("duration cannot be empty")
	}

	if d, err := time.ParseDuration(duration); err == nil {
		return d, nil
	}

	// Handle additional formats like "1 minute", "30 seconds"
	duration = strings.ToLower(duration)
	duration = strings.ReplaceAll(duration, " ", "")

	// Longer words first so "seconds" is not left as "s" + "s"
	replacements := []struct{ word, abbrev string }{
		{"seconds", "s"},
		{"second", "s"},
		{"minutes", "m"},
		{"minute", "m"},
		{"hours", "h"},
		{"hour", "h"},
	}
	for _, r := range replacements {
		duration = strings.ReplaceAll(duration, r.word, r.abbrev)
	}

	return time.ParseDuration(duration)
}
