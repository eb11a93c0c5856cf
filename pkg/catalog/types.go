// Package catalog defines the static tool catalogue: operation descriptors,
// their parameter constraint tables, and argument validation.
package catalog

import "fmt"

// MediaKind classifies the artifact an operation produces.
type MediaKind string

// Media kinds.
const (
	KindImage   MediaKind = "image"
	KindVideo   MediaKind = "video"
	KindAudio   MediaKind = "audio"
	KindModel3D MediaKind = "3d"
)

// LatencyClass drives the upstream timeout budget: short operations race
// against the base budget, long ones (video, audio, 3D) against five times it.
type LatencyClass string

// Latency classes.
const (
	LatencyShort LatencyClass = "short"
	LatencyLong  LatencyClass = "long"
)

// FieldType is the declared type of a parameter field.
type FieldType string

// Field types.
const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// FieldSpec is one row of an operation's constraint table.
type FieldSpec struct {
	Type     FieldType
	Required bool
	// Enum restricts string fields to a fixed value set.
	Enum []string
	// Min and Max bound numeric fields (inclusive).
	Min *float64
	Max *float64
	Help string
}

// Operation is an immutable tool descriptor. Descriptors are built once at
// startup (plus bootstrap overrides) and never mutated while serving.
type Operation struct {
	Name        string
	Description string
	// Model is the upstream model identifier the invocation is routed to.
	Model   string
	Kind    MediaKind
	Latency LatencyClass
	// Inspection marks operations whose payload is the result (segmentation,
	// depth); producing no artifact locator is not a failure for these.
	Inspection bool
	// FilePrefix and FileExt are the defaults for derived artifact names.
	FilePrefix string
	FileExt    string
	Params     map[string]FieldSpec
	// ParamOrder fixes the rendering order of the constraint table.
	ParamOrder []string
	// Disabled operations stay out of the catalogue listing and reject
	// invocations; set only via bootstrap overrides.
	Disabled bool
}

// ValidatedArgs is the argument record narrowed to the operation's declared
// fields. SavePath is split out and never forwarded upstream.
type ValidatedArgs struct {
	Fields   map[string]interface{}
	SavePath string
}

// FormatHint returns the validated output_format field, if the operation
// declares one, for use as the artifact file extension.
func (va *ValidatedArgs) FormatHint() string {
	if v, ok := va.Fields["output_format"].(string); ok {
		return v
	}
	return ""
}

// Validation error codes.
const (
	CodeUnknownTool  = "UNKNOWN_TOOL"
	CodeMissingField = "MISSING_FIELD"
	CodeInvalidField = "INVALID_FIELD"
)

// ValidationError is a structured validation failure. It is always surfaced
// to the caller and never reaches the upstream invoker.
type ValidationError struct {
	Code    string
	Tool    string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

func errUnknownTool(tool string) *ValidationError {
	return &ValidationError{
		Code:    CodeUnknownTool,
		Tool:    tool,
		Message: fmt.Sprintf("unknown tool %q", tool),
	}
}

func errMissingField(tool, field string) *ValidationError {
	return &ValidationError{
		Code:    CodeMissingField,
		Tool:    tool,
		Field:   field,
		Message: fmt.Sprintf("missing required field %q", field),
	}
}

func errInvalidField(tool, field, reason string) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidField,
		Tool:    tool,
		Field:   field,
		Message: fmt.Sprintf("invalid field %q: %s", field, reason),
	}
}
