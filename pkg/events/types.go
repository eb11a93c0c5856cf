// Package events defines event types and publisher interfaces for artifact
// lifecycle events.
package events

// ArtifactSavedEvent is emitted after an invocation persists its artifact.
type ArtifactSavedEvent struct {
	Tool      string `json:"tool"`
	Model     string `json:"model"`
	Kind      string `json:"kind"`
	RequestID string `json:"requestId,omitempty"`
	URL       string `json:"url"`
	Path      string `json:"path"`
	ElapsedMs int64  `json:"elapsedMs"`
	Timestamp string `json:"timestamp"`
}
