package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDestName    = "reproducibility"
	DefaultExtension   = ".py"
	DefaultHostURL     = "https://github.com/<user>"
	DefaultGitBinary   = "git"
	DefaultCondaBinary = "conda"
)

type Config struct {
	// DestName is the destination directory, relative to the working directory.
	DestName string `yaml:"destName"`

	// Extensions are name suffixes selecting which root-level files are copied.
	Extensions []string `yaml:"extensions"`

	// IncludeBuilds keeps build-string pins in the exported environment.
	IncludeBuilds bool `yaml:"includeBuilds"`

	// HostURL is the base of the commit links, e.g. https://github.com/<user>.
	HostURL string `yaml:"hostURL"`

	// CommandTimeout bounds each external command. Zero means no timeout.
	CommandTimeout time.Duration `yaml:"commandTimeout"`

	GitBinary   string `yaml:"gitBinary"`
	CondaBinary string `yaml:"condaBinary"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		DestName:    DefaultDestName,
		Extensions:  []string{DefaultExtension},
		HostURL:     DefaultHostURL,
		GitBinary:   DefaultGitBinary,
		CondaBinary: DefaultCondaBinary,
	}
}

// Parse overlays YAML text on top of Default() and validates the result.
func Parse(text []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(text))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "Couldn't parse config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// GetConfigText finds the right text for a configFlag.
// If configFlag names a .yaml/.yml file, the file is read.
// Otherwise, configFlag is taken to be the literal YAML text.
func GetConfigText(configFlag string) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(configFlag))
	if !strings.Contains(configFlag, "\n") && (ext == ".yaml" || ext == ".yml") {
		log.Infof("reading config file %v", configFlag)
		text, err := ioutil.ReadFile(configFlag)
		if err != nil {
			return nil, errors.Wrapf(err, "Error loading config file %v", configFlag)
		}
		return text, nil
	}
	return []byte(configFlag), nil
}

func (c Config) Validate() error {
	if c.DestName == "" || c.DestName == "." || c.DestName == ".." ||
		strings.ContainsAny(c.DestName, `/\`) {
		return errors.Errorf("invalid destName %q: must be a single directory name", c.DestName)
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions: at least one extension is required")
	}
	for _, ext := range c.Extensions {
		if ext == "" {
			return errors.New("extensions: empty extension")
		}
	}
	if c.GitBinary == "" || c.CondaBinary == "" {
		return errors.New("gitBinary and condaBinary must be set")
	}
	if c.CommandTimeout < 0 {
		return errors.Errorf("commandTimeout %v is negative", c.CommandTimeout)
	}
	return nil
}
