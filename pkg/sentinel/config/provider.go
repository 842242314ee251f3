package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Provider gives the optimizer read access to the loaded configuration and a
// write-back capability for configuration changes requested during a run.
type Provider interface {
	// Config returns the loaded configuration.
	Config() *Config

	// Persist writes a single configuration key back to the config file.
	Persist(key string, value any) error
}

// FileProvider is a Provider backed by the YAML config file.
type FileProvider struct {
	mu  sync.Mutex
	cfg *Config
	v   *viper.Viper
}

// NewFileProvider loads the configuration and returns a file-backed provider.
func NewFileProvider() (*FileProvider, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(configDir, "config.yaml"))
	v.SetConfigType("yaml")
	setDefaults(v)
	// Missing file is fine; Persist creates it.
	_ = v.ReadInConfig()

	return &FileProvider{cfg: cfg, v: v}, nil
}

// Config returns the loaded configuration.
func (p *FileProvider) Config() *Config {
	return p.cfg
}

// Persist writes a key to the config file, creating the file if needed.
// The in-memory configuration is not reloaded; callers that need the new
// value observe it on the next Load.
func (p *FileProvider) Persist(key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := EnsureConfigDir(); err != nil {
		return err
	}

	p.v.Set(key, value)
	if err := p.v.WriteConfig(); err != nil {
		if err := p.v.SafeWriteConfig(); err != nil {
			return fmt.Errorf("persisting %s: %w", key, err)
		}
	}

	return nil
}

// StaticProvider is a Provider over a fixed configuration that records
// persisted keys in memory. It backs tests and dry runs.
type StaticProvider struct {
	mu        sync.Mutex
	cfg       *Config
	persisted map[string]any
}

// NewStaticProvider returns a provider over the given configuration.
func NewStaticProvider(cfg *Config) *StaticProvider {
	return &StaticProvider{cfg: cfg, persisted: make(map[string]any)}
}

// Config returns the wrapped configuration.
func (p *StaticProvider) Config() *Config {
	return p.cfg
}

// Persist records the key in memory.
func (p *StaticProvider) Persist(key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.persisted[key] = value
	return nil
}

// Persisted returns a copy of the recorded writes.
func (p *StaticProvider) Persisted() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]any, len(p.persisted))
	for k, v := range p.persisted {
		out[k] = v
	}
	return out
}
