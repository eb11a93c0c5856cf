// Package bootstrap loads the external model registry: per-tool upstream
// model overrides consumed as opaque configuration.
package bootstrap

// ModelOverride adjusts one tool's upstream routing.
type ModelOverride struct {
	// Model replaces the tool's upstream model identifier. Empty keeps the
	// built-in default.
	Model string `json:"model,omitempty"`
	// Disabled removes the tool from the catalogue and rejects invocations.
	Disabled bool `json:"disabled,omitempty"`
}

// BootstrapConfig is the root model-registry configuration.
type BootstrapConfig struct {
	Name        string                   `json:"name"`
	Version     string                   `json:"version"`
	Description string                   `json:"description,omitempty"`
	Models      map[string]ModelOverride `json:"models"`
	// Subjects overrides COMMS subject names, keyed by role ("tools",
	// "invoke", "generated").
	Subjects map[string]string `json:"subjects,omitempty"`
}

// Subject role keys.
const (
	SubjectRoleTools     = "tools"
	SubjectRoleInvoke    = "invoke"
	SubjectRoleGenerated = "generated"
)

// ResolvedBootstrap provides fast lookup over a bootstrap config.
type ResolvedBootstrap struct {
	name     string
	version  string
	models   map[string]ModelOverride
	subjects map[string]string
}

// GetModel returns the override for a tool, if any.
func (rb *ResolvedBootstrap) GetModel(tool string) (ModelOverride, bool) {
	ov, ok := rb.models[tool]
	return ov, ok
}

// GetSubject returns the subject override for a role, or "" when unset.
func (rb *ResolvedBootstrap) GetSubject(role string) string {
	return rb.subjects[role]
}

// Name returns the config name.
func (rb *ResolvedBootstrap) Name() string { return rb.name }

// Version returns the config version.
func (rb *ResolvedBootstrap) Version() string { return rb.version }
