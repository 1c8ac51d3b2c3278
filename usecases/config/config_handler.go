//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/weaviate/setstream/adapters/repos/roaringset"
)

const (
	DefaultRegistrySize = 128
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config holds the settings shared by every pipeline created through a
// factory.
type Config struct {
	// Backend selects the compressed set implementation, "sroar" or
	// "roaring64".
	Backend string `json:"backend" yaml:"backend"`
	// RandomSeed makes random extraction reproducible when non-zero.
	RandomSeed   int64      `json:"random_seed" yaml:"random_seed"`
	RegistrySize int        `json:"registry_size" yaml:"registry_size"`
	Logging      Logging    `json:"logging" yaml:"logging"`
	Monitoring   Monitoring `json:"monitoring" yaml:"monitoring"`
}

type Logging struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type Monitoring struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

func Defaults() Config {
	return Config{
		Backend:      string(roaringset.DefaultBackend),
		RegistrySize: DefaultRegistrySize,
		Logging: Logging{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

func (c Config) Validate() error {
	if _, err := roaringset.ParseBackend(c.Backend); err != nil {
		return configErr(err)
	}
	if c.RegistrySize <= 0 {
		return configErr(fmt.Errorf("registry_size must be positive, got %d", c.RegistrySize))
	}
	if err := c.Logging.Validate(); err != nil {
		return configErr(err)
	}
	return nil
}

func (l Logging) Validate() error {
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return err
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unsupported log format %q, use text or json", l.Format)
	}
}

// NewLogger builds a logger writing to stderr.
func (l Logging) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, configErr(err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	if strings.ToLower(l.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

// LoadConfig reads the optional config file at path and applies the
// environment on top of it. The load order is
// 1. Defaults
// 2. Config file
// 3. Environment variables
// Command line flags are applied by the caller afterwards.
func LoadConfig(path string, logger logrus.FieldLogger) (Config, error) {
	cfg := Defaults()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return cfg, configErr(err)
		}
		if err := parseFile(file, path, &cfg); err != nil {
			return cfg, configErr(err)
		}
		logger.WithField("action", "config_load").WithField("config_file_path", path).
			Debug("loaded config file")
	}

	if err := FromEnv(&cfg); err != nil {
		return cfg, configErr(err)
	}

	return cfg, nil
}

// parseFile decodes file into target based on the file ending of name.
func parseFile(file []byte, name string, target interface{}) error {
	m := regexp.MustCompile(`.*\.(\w+)$`).FindStringSubmatch(name)
	if len(m) < 2 {
		return fmt.Errorf("file does not have a file ending, got '%s'", name)
	}

	switch m[1] {
	case "json":
		if err := json.Unmarshal(file, target); err != nil {
			return fmt.Errorf("error unmarshalling the json file: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.UnmarshalStrict(file, target); err != nil {
			return fmt.Errorf("error unmarshalling the yaml file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported file extension '%s', use .yaml or .json", m[1])
	}

	return nil
}

func configErr(err error) error {
	return fmt.Errorf("invalid config: %w", err)
}
