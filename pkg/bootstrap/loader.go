package bootstrap

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/morezero/media-bridge/pkg/catalog"
)

const logPrefix = "bootstrap:loader"

// LoadBootstrapConfig loads the model registry from file paths or environment.
// It tries paths in order: first any paths passed in, then the
// MEDIA_MODELS_FILE env var, then defaults. A loaded file is layered over the
// embedded defaults, so a registry that only lists model overrides keeps the
// default name and subjects. An unreadable or unparsable file is skipped, not
// fatal; with no usable file the built-in catalogue routing stands unchanged.
func LoadBootstrapConfig(paths ...string) (*BootstrapConfig, error) {
	all := make([]string, 0, len(paths)+3)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("MEDIA_MODELS_FILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/models.json", "models.json")

	for _, p := range all {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		var cfg BootstrapConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			slog.Warn(fmt.Sprintf("%s - Failed to parse models file %s: %v", logPrefix, p, err))
			continue
		}

		slog.Info(fmt.Sprintf("%s - Loaded model registry from %s", logPrefix, p))
		return MergeBootstrapConfigs(GetDefaultBootstrapConfig(), &cfg), nil
	}

	slog.Info(fmt.Sprintf("%s - Using built-in model registry", logPrefix))
	return GetDefaultBootstrapConfig(), nil
}

// GetDefaultBootstrapConfig returns the embedded fallback: built-in catalogue
// routing and the default subjects.
func GetDefaultBootstrapConfig() *BootstrapConfig {
	return &BootstrapConfig{
		Name:        "media-bridge-bootstrap",
		Version:     "1.0.0",
		Description: "Default generative-media model registry",
		Models:      map[string]ModelOverride{},
	}
}

// CreateResolvedBootstrap builds a ResolvedBootstrap for fast lookups.
func CreateResolvedBootstrap(cfg *BootstrapConfig) *ResolvedBootstrap {
	models := make(map[string]ModelOverride, len(cfg.Models))
	for tool, ov := range cfg.Models {
		models[tool] = ov
	}

	subjects := make(map[string]string, len(cfg.Subjects))
	for role, subject := range cfg.Subjects {
		subjects[role] = subject
	}

	return &ResolvedBootstrap{
		name:     cfg.Name,
		version:  cfg.Version,
		models:   models,
		subjects: subjects,
	}
}

// MergeBootstrapConfigs merges an override config into a base config. Neither
// input is mutated; override entries and non-empty scalar fields win.
func MergeBootstrapConfigs(base, override *BootstrapConfig) *BootstrapConfig {
	merged := *base
	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.Version != "" {
		merged.Version = override.Version
	}
	if override.Description != "" {
		merged.Description = override.Description
	}

	merged.Models = make(map[string]ModelOverride, len(base.Models)+len(override.Models))
	for tool, ov := range base.Models {
		merged.Models[tool] = ov
	}
	for tool, ov := range override.Models {
		merged.Models[tool] = ov
	}

	merged.Subjects = make(map[string]string, len(base.Subjects)+len(override.Subjects))
	for role, subject := range base.Subjects {
		merged.Subjects[role] = subject
	}
	for role, subject := range override.Subjects {
		merged.Subjects[role] = subject
	}

	return &merged
}

// Apply writes the model overrides into the catalogue. Overrides naming
// unknown tools are logged and skipped; the catalogue is authoritative for
// what exists.
func (cfg *BootstrapConfig) Apply(cat *catalog.Catalog) {
	for tool, ov := range cfg.Models {
		if _, ok := cat.Get(tool); !ok {
			slog.Warn(fmt.Sprintf("%s - model override for unknown tool %q ignored", logPrefix, tool))
			continue
		}
		if ov.Model != "" {
			cat.SetModel(tool, ov.Model)
			slog.Info(fmt.Sprintf("%s - %s routed to %s", logPrefix, tool, ov.Model))
		}
		if ov.Disabled {
			cat.SetDisabled(tool, true)
			slog.Info(fmt.Sprintf("%s - %s disabled", logPrefix, tool))
		}
	}
}
