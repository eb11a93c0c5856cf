package events

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/media-bridge/pkg/commsutil"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use
// defaults.
type CommsPublisherOpts struct {
	// GlobalSubject overrides the global artifact event subject (e.g. from
	// MEDIA_EVENT_SUBJECT).
	GlobalSubject string
}

// CommsPublisher publishes artifact events to COMMS subjects.
type CommsPublisher struct {
	nc            *comms.Conn
	globalSubject string
}

// NewCommsPublisher creates a new CommsPublisher. Pass nil for opts to use
// defaults.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	globalSubject := commsutil.SubjectGenerated
	if opts != nil && opts.GlobalSubject != "" {
		globalSubject = opts.GlobalSubject
	}
	return &CommsPublisher{nc: nc, globalSubject: globalSubject}
}

// PublishSaved publishes an ArtifactSavedEvent to both the per-kind and the
// global event subjects. Event delivery is best-effort; invocations succeed
// regardless.
func (p *CommsPublisher) PublishSaved(_ context.Context, event *ArtifactSavedEvent) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	kindSubject := commsutil.BuildGeneratedSubject(event.Kind)
	if err := p.nc.Publish(kindSubject, data); err != nil {
		return fmt.Errorf("%s - failed to publish to %s: %w", commsPublisherLogPrefix, kindSubject, err)
	}
	if err := p.nc.Publish(p.globalSubject, data); err != nil {
		return fmt.Errorf("%s - failed to publish to %s: %w", commsPublisherLogPrefix, p.globalSubject, err)
	}

	slog.Debug(fmt.Sprintf("%s - published %s event for %s", commsPublisherLogPrefix, event.Tool, event.Path))
	return nil
}
