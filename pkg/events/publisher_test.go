package events

import (
	"context"
	"testing"
)

func TestNoOpPublisher(t *testing.T) {
	p := &NoOpPublisher{}
	if err := p.PublishSaved(context.Background(), &ArtifactSavedEvent{Tool: "generate_image"}); err != nil {
		t.Errorf("events:publisher_test - NoOpPublisher returned error: %v", err)
	}
}

func TestCallbackPublisher(t *testing.T) {
	var captured []*ArtifactSavedEvent
	p := NewCallbackPublisher(func(_ context.Context, event *ArtifactSavedEvent) error {
		captured = append(captured, event)
		return nil
	})

	event := &ArtifactSavedEvent{
		Tool: "generate_video",
		Kind: "video",
		URL:  "https://cdn/v.mp4",
		Path: "/tmp/video.mp4",
	}
	if err := p.PublishSaved(context.Background(), event); err != nil {
		t.Fatalf("events:publisher_test - unexpected error: %v", err)
	}

	if len(captured) != 1 {
		t.Fatalf("events:publisher_test - captured %d events, want 1", len(captured))
	}
	if captured[0].Tool != "generate_video" {
		t.Errorf("events:publisher_test - tool = %q", captured[0].Tool)
	}
	if captured[0].Path != "/tmp/video.mp4" {
		t.Errorf("events:publisher_test - path = %q", captured[0].Path)
	}
}
