package events

import "context"

// EventPublisher is the interface for publishing artifact lifecycle events.
type EventPublisher interface {
	PublishSaved(ctx context.Context, event *ArtifactSavedEvent) error
}

// NoOpPublisher is an EventPublisher that does nothing (for in-process usage
// without events).
type NoOpPublisher struct{}

// PublishSaved is a no-op.
func (p *NoOpPublisher) PublishSaved(_ context.Context, _ *ArtifactSavedEvent) error {
	return nil
}

// CallbackPublisher is an EventPublisher that calls a callback function (for
// testing).
type CallbackPublisher struct {
	callback func(ctx context.Context, event *ArtifactSavedEvent) error
}

// NewCallbackPublisher creates a new CallbackPublisher.
func NewCallbackPublisher(cb func(ctx context.Context, event *ArtifactSavedEvent) error) *CallbackPublisher {
	return &CallbackPublisher{callback: cb}
}

// PublishSaved calls the callback.
func (p *CallbackPublisher) PublishSaved(ctx context.Context, event *ArtifactSavedEvent) error {
	return p.callback(ctx, event)
}
