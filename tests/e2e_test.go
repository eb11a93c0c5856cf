// Package tests contains end-to-end tests for the media-bridge.
// These tests start an embedded NATS server and a stub upstream HTTP server,
// then exercise the full request/response flow through the dispatcher,
// simulating real client interactions.
package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
	comms "github.com/nats-io/nats.go"

	"github.com/morezero/media-bridge/pkg/artifact"
	"github.com/morezero/media-bridge/pkg/catalog"
	"github.com/morezero/media-bridge/pkg/dispatcher"
	"github.com/morezero/media-bridge/pkg/events"
	"github.com/morezero/media-bridge/pkg/upstream"
)

const (
	testToolsSubject  = "media.test.tools.v1"
	testInvokeSubject = "media.test.invoke.v1"
	testPort          = 14241
	testAPIKey        = "e2e-test-key"
)

// testEnv holds the test environment for E2E tests.
type testEnv struct {
	nc            *comms.Conn
	ns            *commsserver.Server
	disp          *dispatcher.Dispatcher
	outputDir     string
	upstreamCalls int64

	// mu guards captured; invocations publish from their own goroutines.
	mu       sync.Mutex
	captured []*events.ArtifactSavedEvent
}

// capturedEvents returns a snapshot of the published artifact events.
func (env *testEnv) capturedEvents() []*events.ArtifactSavedEvent {
	env.mu.Lock()
	defer env.mu.Unlock()
	out := make([]*events.ArtifactSavedEvent, len(env.captured))
	copy(out, env.captured)
	return out
}

// setupE2E starts an embedded NATS server, a stub model endpoint, and a stub
// artifact CDN, then wires the full dispatcher pipeline over them.
// upstreamBody is the JSON the model endpoint returns; artifactBody is the
// payload served for artifact downloads.
func setupE2E(t *testing.T, upstreamBody func(r *http.Request) (int, string)) *testEnv {
	t.Helper()

	env := &testEnv{outputDir: t.TempDir()}

	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("artifact-bytes"))
	}))
	t.Cleanup(cdn.Close)

	fal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&env.upstreamCalls, 1)
		if r.Header.Get("Authorization") != "Key "+testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		code, body := upstreamBody(r)
		body = strings.ReplaceAll(body, "{{CDN}}", cdn.URL)
		w.WriteHeader(code)
		w.Write([]byte(body))
	}))
	t.Cleanup(fal.Close)

	// Start embedded NATS
	opts := &commsserver.Options{
		Host:   "127.0.0.1",
		Port:   testPort,
		NoLog:  true,
		NoSigs: true,
	}

	ns, err := commsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("e2e_test - failed to create NATS server: %v", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("e2e_test - NATS server failed to start")
	}
	env.ns = ns

	nc, err := comms.Connect(ns.ClientURL(), comms.Timeout(5*time.Second))
	if err != nil {
		ns.Shutdown()
		t.Fatalf("e2e_test - failed to connect: %v", err)
	}
	env.nc = nc

	pub := events.NewCallbackPublisher(func(_ context.Context, event *events.ArtifactSavedEvent) error {
		env.mu.Lock()
		env.captured = append(env.captured, event)
		env.mu.Unlock()
		return nil
	})

	client := upstream.NewClient(upstream.ClientParams{
		BaseURL:     fal.URL,
		APIKey:      testAPIKey,
		BaseTimeout: 10 * time.Second,
	})
	store := artifact.NewStore(env.outputDir, nil)
	disp := dispatcher.NewDispatcher(dispatcher.NewDispatcherParams{
		Catalog:   catalog.New(),
		Invoker:   client,
		Store:     store,
		Publisher: pub,
	})
	env.disp = disp

	// Subscriptions mirror the server wiring: tools synchronous, invoke in a
	// goroutine per request.
	_, err = nc.Subscribe(testToolsSubject, func(msg *comms.Msg) {
		var req dispatcher.InvokeRequest
		json.Unmarshal(msg.Data, &req)
		data, _ := json.Marshal(disp.ListTools(req.ID))
		msg.Respond(data)
	})
	if err != nil {
		nc.Close()
		ns.Shutdown()
		t.Fatalf("e2e_test - failed to subscribe: %v", err)
	}

	_, err = nc.Subscribe(testInvokeSubject, func(msg *comms.Msg) {
		var req dispatcher.InvokeRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			resp := &dispatcher.InvokeResponse{Ok: false, Message: "Failed to decode request"}
			data, _ := json.Marshal(resp)
			msg.Respond(data)
			return
		}
		go func() {
			resp := disp.Invoke(context.Background(), &req)
			data, _ := json.Marshal(resp)
			msg.Respond(data)
		}()
	})
	if err != nil {
		nc.Close()
		ns.Shutdown()
		t.Fatalf("e2e_test - failed to subscribe: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return env
}

// sendInvoke sends an invoke request over NATS and returns the response.
func sendInvoke(t *testing.T, nc *comms.Conn, req *dispatcher.InvokeRequest) *dispatcher.InvokeResponse {
	t.Helper()

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("e2e_test - failed to marshal request: %v", err)
	}

	msg, err := nc.Request(testInvokeSubject, data, 20*time.Second)
	if err != nil {
		t.Fatalf("e2e_test - request failed: %v", err)
	}

	var resp dispatcher.InvokeResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		t.Fatalf("e2e_test - failed to unmarshal response: %v", err)
	}

	return &resp
}

func TestE2E_ListTools(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})

	msg, err := env.nc.Request(testToolsSubject, []byte(`{"id":"e2e-tools-1"}`), 10*time.Second)
	if err != nil {
		t.Fatalf("e2e_test - request failed: %v", err)
	}

	var resp dispatcher.ToolsResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		t.Fatalf("e2e_test - failed to unmarshal response: %v", err)
	}

	if !resp.Ok {
		t.Error("e2e_test - expected Ok=true for tools")
	}
	if resp.ID != "e2e-tools-1" {
		t.Errorf("e2e_test - ID = %q, want %q", resp.ID, "e2e-tools-1")
	}
	if len(resp.Tools) != 22 {
		t.Errorf("e2e_test - %d tools, want 22", len(resp.Tools))
	}
	if resp.Tools[0].Name != "generate_image" {
		t.Errorf("e2e_test - first tool = %q", resp.Tools[0].Name)
	}
	schema := resp.Tools[0].InputSchema
	if schema["type"] != "object" {
		t.Errorf("e2e_test - schema type = %v", schema["type"])
	}
}

func TestE2E_GenerateImage(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		if r.URL.Path != "/fal-ai/flux/dev" {
			return http.StatusNotFound, `{}`
		}
		return http.StatusOK, `{"images":[{"url":"{{CDN}}/a.png"}]}`
	})

	resp := sendInvoke(t, env.nc, &dispatcher.InvokeRequest{
		ID:   "e2e-img-1",
		Tool: "generate_image",
		Args: map[string]interface{}{"prompt": "a red fox"},
	})

	if !resp.Ok {
		t.Fatalf("e2e_test - error response: %s", resp.Message)
	}
	if resp.ID != "e2e-img-1" {
		t.Errorf("e2e_test - ID = %q, want %q", resp.ID, "e2e-img-1")
	}
	if !strings.Contains(resp.Message, "Saved image to ") {
		t.Errorf("e2e_test - message %q", resp.Message)
	}

	path := strings.TrimPrefix(resp.Message, "Saved image to ")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("e2e_test - saved file unreadable: %v", err)
	}
	if string(data) != "artifact-bytes" {
		t.Errorf("e2e_test - file content %q", data)
	}
	if filepath.Dir(path) != env.outputDir {
		t.Errorf("e2e_test - file %q outside output dir %q", path, env.outputDir)
	}

	captured := env.capturedEvents()
	if len(captured) != 1 {
		t.Fatalf("e2e_test - %d events, want 1", len(captured))
	}
	if captured[0].Tool != "generate_image" || captured[0].Path != path {
		t.Errorf("e2e_test - event %+v", captured[0])
	}
}

func TestE2E_ExplicitSavePath(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"images":[{"url":"{{CDN}}/a.png"}]}`
	})

	target := filepath.Join(env.outputDir, "nested", "fox.png")
	resp := sendInvoke(t, env.nc, &dispatcher.InvokeRequest{
		ID:   "e2e-save-1",
		Tool: "generate_image",
		Args: map[string]interface{}{"prompt": "a red fox", "save_path": target},
	})

	if !resp.Ok {
		t.Fatalf("e2e_test - error response: %s", resp.Message)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("e2e_test - file not at requested path: %v", err)
	}
}

func TestE2E_ValidationRejectsBeforeUpstream(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})

	resp := sendInvoke(t, env.nc, &dispatcher.InvokeRequest{
		ID:   "e2e-val-1",
		Tool: "generate_image",
		Args: map[string]interface{}{"image_size": "not-a-size"},
	})

	if resp.Ok {
		t.Error("e2e_test - expected Ok=false for invalid args")
	}
	if atomic.LoadInt64(&env.upstreamCalls) != 0 {
		t.Errorf("e2e_test - upstream called %d times for invalid args", env.upstreamCalls)
	}
}

func TestE2E_UnknownTool(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})

	resp := sendInvoke(t, env.nc, &dispatcher.InvokeRequest{
		ID:   "e2e-unknown-1",
		Tool: "generate_hologram",
	})

	if resp.Ok {
		t.Error("e2e_test - expected Ok=false for unknown tool")
	}
	if !strings.Contains(resp.Message, "unknown tool") {
		t.Errorf("e2e_test - message %q", resp.Message)
	}
}

func TestE2E_UpstreamValidationError(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusUnprocessableEntity, `{"detail":"prompt rejected by safety filter"}`
	})

	resp := sendInvoke(t, env.nc, &dispatcher.InvokeRequest{
		ID:   "e2e-422-1",
		Tool: "generate_image",
		Args: map[string]interface{}{"prompt": "something"},
	})

	if resp.Ok {
		t.Error("e2e_test - expected Ok=false for upstream 422")
	}
	if !strings.Contains(resp.Message, "prompt rejected by safety filter") {
		t.Errorf("e2e_test - message %q", resp.Message)
	}
}

func TestE2E_NoArtifactInPayload(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"images":[]}`
	})

	resp := sendInvoke(t, env.nc, &dispatcher.InvokeRequest{
		ID:   "e2e-empty-1",
		Tool: "generate_image",
		Args: map[string]interface{}{"prompt": "a red fox"},
	})

	if resp.Ok {
		t.Error("e2e_test - expected Ok=false for empty images")
	}
	if !strings.Contains(resp.Message, "No image was generated") {
		t.Errorf("e2e_test - message %q", resp.Message)
	}
}

func TestE2E_InspectionOperation(t *testing.T) {
	raw := `{"masks":[{"score":0.97}]}`
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusOK, raw
	})

	resp := sendInvoke(t, env.nc, &dispatcher.InvokeRequest{
		ID:   "e2e-seg-1",
		Tool: "segment_image",
		Args: map[string]interface{}{"image_url": "https://example.com/in.png"},
	})

	if !resp.Ok {
		t.Fatalf("e2e_test - error response: %s", resp.Message)
	}
	if resp.Message != raw {
		t.Errorf("e2e_test - message %q, want raw payload", resp.Message)
	}
}

func TestE2E_InvalidJSON(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})

	msg, err := env.nc.Request(testInvokeSubject, []byte(`{invalid json`), 10*time.Second)
	if err != nil {
		t.Fatalf("e2e_test - request failed: %v", err)
	}

	var resp dispatcher.InvokeResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		t.Fatalf("e2e_test - failed to unmarshal response: %v", err)
	}

	if resp.Ok {
		t.Error("e2e_test - expected Ok=false for invalid JSON")
	}
}

func TestE2E_RequestIDPreservation(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})

	ids := []string{"req-001", "req-002", "unique-xyz-789"}
	for _, id := range ids {
		resp := sendInvoke(t, env.nc, &dispatcher.InvokeRequest{
			ID:   id,
			Tool: "generate_hologram",
		})
		if resp.ID != id {
			t.Errorf("e2e_test - ID = %q, want %q", resp.ID, id)
		}
	}
}

func TestE2E_ConcurrentInvocations(t *testing.T) {
	env := setupE2E(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"images":[{"url":"{{CDN}}/a.png"}]}`
	})

	const numRequests = 10
	type result struct {
		resp *dispatcher.InvokeResponse
		err  error
	}
	results := make(chan result, numRequests)

	// Failures travel back over the channel; only the test goroutine touches t.
	for i := 0; i < numRequests; i++ {
		go func(idx int) {
			req := &dispatcher.InvokeRequest{
				ID:   "concurrent-" + string(rune('a'+idx%26)),
				Tool: "generate_image",
				Args: map[string]interface{}{"prompt": "a red fox"},
			}
			data, err := json.Marshal(req)
			if err != nil {
				results <- result{err: err}
				return
			}
			msg, err := env.nc.Request(testInvokeSubject, data, 20*time.Second)
			if err != nil {
				results <- result{err: err}
				return
			}
			var resp dispatcher.InvokeResponse
			if err := json.Unmarshal(msg.Data, &resp); err != nil {
				results <- result{err: err}
				return
			}
			results <- result{resp: &resp}
		}(i)
	}

	for i := 0; i < numRequests; i++ {
		select {
		case res := <-results:
			if res.err != nil {
				t.Errorf("e2e_test - concurrent invocation error: %v", res.err)
				continue
			}
			if !res.resp.Ok {
				t.Errorf("e2e_test - concurrent invocation failed: %s", res.resp.Message)
			}
		case <-time.After(30 * time.Second):
			t.Fatalf("e2e_test - timeout waiting for concurrent invocation %d", i)
		}
	}
}
