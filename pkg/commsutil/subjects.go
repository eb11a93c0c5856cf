package commsutil

import "fmt"

// Default COMMS subjects.
const (
	// SubjectTools serves the tool catalogue (list operations).
	SubjectTools = "media.bridge.tools.v1"
	// SubjectInvoke serves tool invocations.
	SubjectInvoke = "media.bridge.invoke.v1"
	// SubjectGenerated is the global artifact-saved event subject.
	SubjectGenerated = "media.bridge.generated"
)

// BuildGeneratedSubject builds a per-media-kind artifact event subject.
func BuildGeneratedSubject(kind string) string {
	return fmt.Sprintf("%s.%s", SubjectGenerated, kind)
}
