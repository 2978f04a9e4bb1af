package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richinsley/namedsem"
	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		Semaphore *SemaphoreConfig `yaml:"semaphore" json:"semaphore"`
		Logging   *LoggingConfig   `yaml:"logging" json:"logging"`
	}

	// SemaphoreConfig holds the defaults used to open a semaphore.
	// Options and Mode use the forms accepted by namedsem.ParseOpenOptions
	// and namedsem.ParseAccessMode.
	SemaphoreConfig struct {
		Options string `yaml:"options" json:"options"`
		Mode    string `yaml:"mode" json:"mode"`
		Initial uint32 `yaml:"initial" json:"initial"`
	}

	LoggingConfig struct {
		Level  string `yaml:"level" json:"level"`
		Output string `yaml:"output" json:"output"`
	}

	// Settings is a Config resolved into library values.
	Settings struct {
		Options  namedsem.OpenOptions
		Mode     namedsem.AccessMode
		Initial  uint32
		LogLevel string
		LogDir   string
	}
)

const (
	DefaultOptions  = "create|read|write"
	DefaultMode     = "0600"
	DefaultLogLevel = "info"
)

func GetConfig(path string) (Config, error) {
	configContent, err := GetConfigReader(path)
	if err != nil {
		return Config{}, err
	}

	return ParseConfig(configContent)
}

func ParseConfig(input io.ReadCloser) (Config, error) {
	defer input.Close()

	content, err := io.ReadAll(input)
	if err != nil {
		return Config{}, fmt.Errorf("cant read config: %w", err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return Config{}, nil
	}

	var parseErr strings.Builder
	for _, parser := range []func(io.Reader, *Config) error{yamlParser, jsonParser} {
		var cfg Config
		if err = parser(bytes.NewReader(content), &cfg); err == nil {
			return cfg, nil
		}
		_, _ = parseErr.WriteString(fmt.Sprintf("Error parsing config: %s\n", err.Error()))
	}

	return Config{}, errors.New(parseErr.String())
}

// Resolve fills in defaults for missing values and parses the option and
// mode strings.
func (c Config) Resolve() (Settings, error) {
	sem := SemaphoreConfig{Options: DefaultOptions, Mode: DefaultMode}
	if c.Semaphore != nil {
		sem.Initial = c.Semaphore.Initial
		if c.Semaphore.Options != "" {
			sem.Options = c.Semaphore.Options
		}
		if c.Semaphore.Mode != "" {
			sem.Mode = c.Semaphore.Mode
		}
	}

	logging := LoggingConfig{Level: DefaultLogLevel}
	if c.Logging != nil {
		logging.Output = c.Logging.Output
		if c.Logging.Level != "" {
			logging.Level = c.Logging.Level
		}
	}

	opts, err := namedsem.ParseOpenOptions(sem.Options)
	if err != nil {
		return Settings{}, fmt.Errorf("semaphore.options: %w", err)
	}
	mode, err := namedsem.ParseAccessMode(sem.Mode)
	if err != nil {
		return Settings{}, fmt.Errorf("semaphore.mode: %w", err)
	}

	return Settings{
		Options:  opts,
		Mode:     mode,
		Initial:  sem.Initial,
		LogLevel: logging.Level,
		LogDir:   logging.Output,
	}, nil
}

func yamlParser(input io.Reader, config *Config) error {
	decoder := yaml.NewDecoder(input)
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		return fmt.Errorf("cant decode yaml config: %w", err)
	}

	return nil
}

func jsonParser(input io.Reader, config *Config) error {
	decoder := json.NewDecoder(input)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		return fmt.Errorf("cant decode json config: %w", err)
	}

	return nil
}
