// Package dispatcher runs the per-invocation pipeline: validate the
// arguments, call the upstream model, extract the artifact locator, persist
// the artifact, and format exactly one response message. Every failure mode
// ends in an error-flagged response; nothing escapes as a crash.
package dispatcher

import "github.com/morezero/media-bridge/pkg/catalog"

// InvokeRequest is the JSON envelope for an incoming tool invocation.
type InvokeRequest struct {
	ID   string                 `json:"id,omitempty"`
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args"`
}

// InvokeResponse is the JSON envelope for an invocation reply: one text
// message plus an error flag.
type InvokeResponse struct {
	ID      string `json:"id,omitempty"`
	Ok      bool   `json:"ok"`
	Message string `json:"message"`
}

// ToolsResponse is the JSON envelope for the tool-discovery reply.
type ToolsResponse struct {
	ID    string                   `json:"id,omitempty"`
	Ok    bool                     `json:"ok"`
	Tools []catalog.ToolDefinition `json:"tools"`
}
