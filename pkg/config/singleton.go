package config

import (
	"fmt"
	"reflect"
	"sync"
)

// Section names one top-level block of Config, as spelled in YAML.
type Section string

const (
	SectionParser    Section = "parser"
	SectionCodegen   Section = "codegen"
	SectionTransform Section = "transform"
	SectionCache     Section = "cache"
	SectionWatch     Section = "watch"
	SectionTelemetry Section = "telemetry"
)

// Sections lists every section in file order.
func Sections() []Section {
	return []Section{SectionParser, SectionCodegen, SectionTransform, SectionCache, SectionWatch, SectionTelemetry}
}

// AffectsOutput reports whether a change to s can change generated C text.
func (s Section) AffectsOutput() bool {
	switch s {
	case SectionParser, SectionCodegen, SectionTransform:
		return true
	}
	return false
}

// section returns the value of s in cfg.
func (cfg *Config) section(s Section) any {
	switch s {
	case SectionParser:
		return cfg.Parser
	case SectionCodegen:
		return cfg.Codegen
	case SectionTransform:
		return cfg.Transform
	case SectionCache:
		return cfg.Cache
	case SectionWatch:
		return cfg.Watch
	case SectionTelemetry:
		return cfg.Telemetry
	}
	return nil
}

// Diff returns the sections that differ between a and b, in file order. A
// nil side differs in every section.
func Diff(a, b *Config) []Section {
	if a == nil || b == nil {
		if a == b {
			return nil
		}
		return Sections()
	}
	var changed []Section
	for _, s := range Sections() {
		if !reflect.DeepEqual(a.section(s), b.section(s)) {
			changed = append(changed, s)
		}
	}
	return changed
}

// Reload describes a configuration swap.
type Reload struct {
	Previous *Config
	Current  *Config
	Changed  []Section
}

// AffectsOutput reports whether any changed section can change generated C.
func (r Reload) AffectsOutput() bool {
	for _, s := range r.Changed {
		if s.AffectsOutput() {
			return true
		}
	}
	return false
}

// Has reports whether s changed.
func (r Reload) Has(s Section) bool {
	for _, c := range r.Changed {
		if c == s {
			return true
		}
	}
	return false
}

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Initialize loads path (with environment overrides) into the global
// configuration unless one is already installed, in which case it does
// nothing. An empty path starts from defaults.
func Initialize(path string) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig != nil {
		return nil
	}

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}
	globalConfig = cfg
	return nil
}

// GetConfig returns the global configuration, or nil before Initialize.
func GetConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetConfig installs cfg as the global configuration. Commands use it in
// tests; nil uninstalls it.
func SetConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ReloadConfig loads path and swaps it in when it validates, reporting which
// sections changed. `symc watch` uses the report to decide whether the
// converter must be rebuilt. On error the global configuration is kept.
func ReloadConfig(path string) (Reload, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return Reload{}, fmt.Errorf("failed to reload configuration: %w", err)
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	r := Reload{
		Previous: globalConfig,
		Current:  cfg,
		Changed:  Diff(globalConfig, cfg),
	}
	globalConfig = cfg
	return r, nil
}
