package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	defaultName        = "shapecollide"
	defaultWebHost     = "0.0.0.0"
	defaultWebPort     = "8080"
	defaultSSHHost     = "::"
	defaultSSHPort     = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultDisplayHost = "localhost"
	defaultLogLevel    = "info"
	defaultWorkers     = 8
	defaultMaxPairs    = 1024
)

// Config holds the settings of every entry point. Values come from defaults,
// then an optional YAML file, then environment variables.
type Config struct {
	Name  string `yaml:"name"`
	Web   Web    `yaml:"web"`
	SSH   SSH    `yaml:"ssh"`
	Log   Log    `yaml:"log"`
	Batch Batch  `yaml:"batch"`
}

type Web struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type SSH struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
	// DisplayHost is the host name shown on the web page for ssh connections.
	DisplayHost string `yaml:"display_host"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Batch bounds the parallel evaluation of collision batches.
type Batch struct {
	Workers  int `yaml:"workers"`
	MaxPairs int `yaml:"max_pairs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Name:  defaultName,
		Web:   Web{Host: defaultWebHost, Port: defaultWebPort},
		SSH:   SSH{Host: defaultSSHHost, Port: defaultSSHPort, HostKeyPath: defaultHostKeyPath, DisplayHost: defaultDisplayHost},
		Log:   Log{Level: defaultLogLevel},
		Batch: Batch{Workers: defaultWorkers, MaxPairs: defaultMaxPairs},
	}
}

// Load builds the configuration. The YAML file named by COLLIDE_CONFIG is
// applied over the defaults if set, then environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := GetEnv("COLLIDE_CONFIG", ""); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := cfg.decodeYAML(f); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadYAML applies a YAML document over the defaults without consulting the environment.
func LoadYAML(r io.Reader) (Config, error) {
	cfg := Default()
	if err := cfg.decodeYAML(r); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decodeYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Name = GetEnv("COLLIDE_NAME", c.Name)
	c.Web.Host = GetEnv("WEB_HOST", c.Web.Host)
	c.Web.Port = GetEnv("WEB_PORT", c.Web.Port)
	c.SSH.Host = GetEnv("SSH_HOST", c.SSH.Host)
	c.SSH.Port = GetEnv("SSH_PORT", c.SSH.Port)
	c.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", c.SSH.HostKeyPath)
	c.SSH.DisplayHost = GetEnv("SSH_DISPLAY_HOST", c.SSH.DisplayHost)
	c.Log.Level = GetEnv("LOG_LEVEL", c.Log.Level)

	var err error
	if c.Batch.Workers, err = envInt("BATCH_WORKERS", c.Batch.Workers); err != nil {
		return err
	}
	if c.Batch.MaxPairs, err = envInt("BATCH_MAX_PAIRS", c.Batch.MaxPairs); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings no entry point can run with.
func (c Config) Validate() error {
	if c.Web.Port == "" {
		return errors.New("config: web port is empty")
	}
	if c.SSH.Port == "" {
		return errors.New("config: ssh port is empty")
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("config: batch workers must be positive, got %d", c.Batch.Workers)
	}
	if c.Batch.MaxPairs <= 0 {
		return fmt.Errorf("config: batch max_pairs must be positive, got %d", c.Batch.MaxPairs)
	}
	return nil
}

func envInt(key string, fallback int) (int, error) {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}
