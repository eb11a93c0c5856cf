package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/morezero/media-bridge/pkg/catalog"
	"github.com/morezero/media-bridge/pkg/events"
	"github.com/morezero/media-bridge/pkg/extract"
	"github.com/morezero/media-bridge/pkg/upstream"
)

const logPrefix = "dispatcher:dispatch"

// Invoker issues the single upstream call for an invocation.
type Invoker interface {
	Invoke(ctx context.Context, op *catalog.Operation, args map[string]interface{}) (*upstream.Response, error)
	Budget(class catalog.LatencyClass) time.Duration
}

// Store persists a fetched artifact.
type Store interface {
	Save(ctx context.Context, url, targetPath, prefix, ext string) (string, error)
}

// Dispatcher orchestrates invocations. Each invocation is independent and
// holds no shared mutable state; the catalogue and collaborators are
// read-only after construction.
type Dispatcher struct {
	cat       *catalog.Catalog
	invoker   Invoker
	store     Store
	publisher events.EventPublisher
}

// NewDispatcherParams holds parameters for NewDispatcher.
type NewDispatcherParams struct {
	Catalog   *catalog.Catalog
	Invoker   Invoker
	Store     Store
	Publisher events.EventPublisher
}

// NewDispatcher creates a new Dispatcher. A nil publisher disables events.
func NewDispatcher(params NewDispatcherParams) *Dispatcher {
	pub := params.Publisher
	if pub == nil {
		pub = &events.NoOpPublisher{}
	}
	return &Dispatcher{
		cat:       params.Catalog,
		invoker:   params.Invoker,
		store:     params.Store,
		publisher: pub,
	}
}

// ListTools returns the tool-discovery payload.
func (d *Dispatcher) ListTools(id string) *ToolsResponse {
	return &ToolsResponse{ID: id, Ok: true, Tools: d.cat.RenderTools()}
}

// Invoke runs the pipeline for one invocation and always returns a terminal
// response; failures become error-flagged messages, never panics or hangs.
func (d *Dispatcher) Invoke(ctx context.Context, req *InvokeRequest) *InvokeResponse {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	slog.Debug(fmt.Sprintf("%s - tool=%s id=%s", logPrefix, req.Tool, id))

	// Validating: no upstream call happens on failure.
	va, err := d.cat.Validate(req.Tool, req.Args)
	if err != nil {
		return &InvokeResponse{ID: id, Ok: false, Message: err.Error()}
	}
	op, _ := d.cat.Get(req.Tool)

	// Invoking: one upstream call, raced against the latency-class budget.
	started := time.Now()
	resp, err := d.invoker.Invoke(ctx, op, va.Fields)
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - %s id=%s upstream failure: %v", logPrefix, op.Name, id, err))
		return &InvokeResponse{ID: id, Ok: false, Message: Classify(err, op)}
	}

	// Extracting.
	urls := extractURLs(op.Kind, resp.Raw)
	if len(urls) == 0 {
		if op.Inspection && va.SavePath == "" {
			// The payload is the result for inspection-style operations.
			return &InvokeResponse{ID: id, Ok: true, Message: string(resp.Raw)}
		}
		return &InvokeResponse{ID: id, Ok: false, Message: noArtifactMessage(op)}
	}

	// Persisting: one file per invocation, bounded like the upstream call.
	ext := va.FormatHint()
	if ext == "" {
		ext = op.FileExt
	}
	saveCtx, cancel := context.WithTimeout(ctx, d.invoker.Budget(op.Latency))
	defer cancel()
	path, err := d.store.Save(saveCtx, urls[0], va.SavePath, op.FilePrefix, ext)
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - %s id=%s persist failure: %v", logPrefix, op.Name, id, err))
		return &InvokeResponse{ID: id, Ok: false, Message: Classify(err, op)}
	}

	d.publishSaved(ctx, op, resp.RequestID, urls[0], path, time.Since(started))

	message := fmt.Sprintf("Saved %s to %s", kindNoun(op.Kind), path)
	if len(urls) > 1 {
		message = fmt.Sprintf("%s (upstream produced %d images; saved the first)", message, len(urls))
	}
	return &InvokeResponse{ID: id, Ok: true, Message: message}
}

// extractURLs applies the media kind's shape probes to the raw payload.
func extractURLs(kind catalog.MediaKind, raw []byte) []string {
	switch kind {
	case catalog.KindImage:
		return extract.ImageURLs(raw)
	case catalog.KindVideo:
		if url := extract.VideoURL(raw); url != "" {
			return []string{url}
		}
	case catalog.KindAudio:
		if url := extract.AudioURL(raw); url != "" {
			return []string{url}
		}
	case catalog.KindModel3D:
		if url := extract.ModelURL(raw); url != "" {
			return []string{url}
		}
	}
	return nil
}

// publishSaved emits the artifact event; delivery is best-effort.
func (d *Dispatcher) publishSaved(ctx context.Context, op *catalog.Operation, requestID, url, path string, elapsed time.Duration) {
	event := &events.ArtifactSavedEvent{
		Tool:      op.Name,
		Model:     op.Model,
		Kind:      string(op.Kind),
		RequestID: requestID,
		URL:       url,
		Path:      path,
		ElapsedMs: elapsed.Milliseconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := d.publisher.PublishSaved(ctx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish artifact event: %v", logPrefix, err))
	}
}
