package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/juruen/slideview/log"
)

const (
	defaultConfigFile    = ".slideview.yaml"
	defaultHost          = "http://localhost:5000"
	defaultPort          = "8080"
	defaultTimeout       = 30 * time.Second
	defaultContainerW    = 1280
	defaultContainerH    = 800
	ReferenceStrokeWidth = 0.001
)

// Container is the on-screen size of the headless viewer in pixels.
type Container struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Server struct {
	Port string `yaml:"port"`
}

type Config struct {
	// Host is the slide server base URL, e.g. http://localhost:5000
	Host    string        `yaml:"host"`
	Cache   bool          `yaml:"cache"`
	Timeout time.Duration `yaml:"timeout"`
	LogFile string        `yaml:"log_file"`

	Container            Container `yaml:"container"`
	ReferenceStrokeWidth float64   `yaml:"reference_stroke_width"`
	Server               Server    `yaml:"server"`
}

func Default() Config {
	return Config{
		Host:                 defaultHost,
		Timeout:              defaultTimeout,
		Container:            Container{Width: defaultContainerW, Height: defaultContainerH},
		ReferenceStrokeWidth: ReferenceStrokeWidth,
		Server:               Server{Port: defaultPort},
	}
}

// ConfigPath returns the config file location, honouring SLIDEVIEW_CONFIG.
func ConfigPath() (string, error) {
	if configFile, ok := os.LookupEnv("SLIDEVIEW_CONFIG"); ok {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home")
	}

	return filepath.Join(home, defaultConfigFile), nil
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	content, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Trace.Println("config not found, using defaults:", path)
			return cfg.withEnv(), nil
		}
		return cfg, errors.Wrapf(err, "failed to read %s", path)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse %s", path)
	}
	log.Trace.Println("config loaded:", path)

	return cfg.fill().withEnv(), nil
}

// Save writes cfg as YAML to path.
func Save(cfg Config, path string) error {
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	return ioutil.WriteFile(path, content, 0600)
}

// fill restores defaults for zero values left by a partial file
func (c Config) fill() Config {
	d := Default()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Container.Width <= 0 || c.Container.Height <= 0 {
		c.Container = d.Container
	}
	if c.ReferenceStrokeWidth <= 0 {
		c.ReferenceStrokeWidth = d.ReferenceStrokeWidth
	}
	if c.Server.Port == "" {
		c.Server.Port = d.Server.Port
	}
	return c
}

func (c Config) withEnv() Config {
	if host, ok := os.LookupEnv("SLIDEVIEW_HOST"); ok && host != "" {
		c.Host = host
	}
	return c
}
