// Package server orchestrates all components: NATS client, upstream client,
// artifact store, dispatcher, HTTP health.
package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/media-bridge/internal/config"
	"github.com/morezero/media-bridge/pkg/artifact"
	"github.com/morezero/media-bridge/pkg/bootstrap"
	"github.com/morezero/media-bridge/pkg/catalog"
	"github.com/morezero/media-bridge/pkg/commsutil"
	"github.com/morezero/media-bridge/pkg/dispatcher"
	"github.com/morezero/media-bridge/pkg/events"
	"github.com/morezero/media-bridge/pkg/upstream"
)

const logPrefix = "server:server"

// Server is the media-bridge orchestrator.
type Server struct {
	cfg        *config.Config
	nc         *comms.Conn
	httpServer *http.Server
	cat        *catalog.Catalog
	resolved   *bootstrap.ResolvedBootstrap
}

// Run starts the server, blocks until shutdown signal, then cleans up.
func Run() error {
	// Setup structured logging
	var logLevel slog.Level
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info(fmt.Sprintf("%s - Starting media-bridge", logPrefix))

	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Server{cfg: cfg}

	// Step 1: Build the catalogue and apply model registry overrides
	cat := catalog.New()
	bootstrapCfg, err := bootstrap.LoadBootstrapConfig(cfg.ModelsFile)
	if err != nil {
		return fmt.Errorf("%s - failed to load model registry: %w", logPrefix, err)
	}
	bootstrapCfg.Apply(cat)
	s.cat = cat
	s.resolved = bootstrap.CreateResolvedBootstrap(bootstrapCfg)

	// Determine subjects: env override, then model registry, then defaults
	toolsSubject := resolveSubject(cfg.ToolsSubject, s.resolved, bootstrap.SubjectRoleTools, commsutil.SubjectTools)
	invokeSubject := resolveSubject(cfg.InvokeSubject, s.resolved, bootstrap.SubjectRoleInvoke, commsutil.SubjectInvoke)
	eventSubject := resolveSubject(cfg.EventSubject, s.resolved, bootstrap.SubjectRoleGenerated, commsutil.SubjectGenerated)
	slog.Info(fmt.Sprintf("%s - Subjects: tools=%s invoke=%s generated=%s", logPrefix, toolsSubject, invokeSubject, eventSubject))

	// Step 2: Connect to NATS
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
	}
	s.nc = nc
	slog.Info(fmt.Sprintf("%s - Connected to NATS at %s", logPrefix, cfg.COMMSURL))

	// Step 3: Create dispatcher
	client := upstream.NewClient(upstream.ClientParams{
		BaseURL:     cfg.FalBaseURL,
		APIKey:      cfg.FalAPIKey,
		BaseTimeout: cfg.Timeout(),
	})
	store := artifact.NewStore(cfg.OutputDir, nil)
	publisher := events.NewCommsPublisher(nc, &events.CommsPublisherOpts{GlobalSubject: eventSubject})
	disp := dispatcher.NewDispatcher(dispatcher.NewDispatcherParams{
		Catalog:   cat,
		Invoker:   client,
		Store:     store,
		Publisher: publisher,
	})

	// Step 4: Subscribe to the tools subject
	toolsSub, err := nc.Subscribe(toolsSubject, func(msg *comms.Msg) {
		var req dispatcher.InvokeRequest
		if len(msg.Data) > 0 {
			if err := commsutil.DecodePayload(msg.Data, &req); err != nil {
				slog.Error(fmt.Sprintf("%s - failed to decode tools request: %v", logPrefix, err))
			}
		}
		data, err := commsutil.EncodePayload(disp.ListTools(req.ID))
		if err != nil {
			slog.Error(fmt.Sprintf("%s - failed to encode tools response: %v", logPrefix, err))
			return
		}
		msg.Respond(data)
	})
	if err != nil {
		nc.Close()
		return fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, toolsSubject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, toolsSubject))

	// Step 5: Subscribe to the invoke subject. Each invocation runs in its own
	// goroutine so a long video job never blocks other requests.
	invokeSub, err := nc.Subscribe(invokeSubject, func(msg *comms.Msg) {
		var req dispatcher.InvokeRequest
		if err := commsutil.DecodePayload(msg.Data, &req); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode invoke request: %v", logPrefix, err))
			resp := &dispatcher.InvokeResponse{Ok: false, Message: "Failed to decode request"}
			if data, err := commsutil.EncodePayload(resp); err == nil {
				msg.Respond(data)
			}
			return
		}

		go func() {
			resp := disp.Invoke(ctx, &req)
			data, err := commsutil.EncodePayload(resp)
			if err != nil {
				slog.Error(fmt.Sprintf("%s - failed to encode invoke response: %v", logPrefix, err))
				return
			}
			msg.Respond(data)
		}()
	})
	if err != nil {
		toolsSub.Unsubscribe()
		nc.Close()
		return fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, invokeSubject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, invokeSubject))

	// Step 6: Start HTTP health server
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/health", s.handleHealth())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	s.httpServer = &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP health server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Media-bridge is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown
	toolsSub.Unsubscribe()
	invokeSub.Unsubscribe()
	s.httpServer.Shutdown(ctx)
	nc.Drain()

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// resolveSubject picks a COMMS subject: explicit config wins, then the model
// registry's subjects block, then the built-in default.
func resolveSubject(override string, resolved *bootstrap.ResolvedBootstrap, role, fallback string) string {
	if override != "" {
		return override
	}
	if s := resolved.GetSubject(role); s != "" {
		return s
	}
	return fallback
}

// healthPayload is the /health response body.
type healthPayload struct {
	Status string            `json:"status"`
	Checks map[string]bool   `json:"checks"`
	Info   map[string]string `json:"info"`
}

// handleHealth reports COMMS connectivity and output directory writability.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overrides := 0
		for _, op := range s.cat.List() {
			if _, ok := s.resolved.GetModel(op.Name); ok {
				overrides++
			}
		}
		h := &healthPayload{
			Status: "healthy",
			Checks: map[string]bool{
				"comms":      s.nc != nil && s.nc.IsConnected(),
				"output_dir": dirWritable(s.cfg.OutputDir),
			},
			Info: map[string]string{
				"registry":        s.resolved.Name(),
				"version":         s.resolved.Version(),
				"model_overrides": strconv.Itoa(overrides),
			},
		}
		for _, ok := range h.Checks {
			if !ok {
				h.Status = "unhealthy"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if h.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		data, err := commsutil.EncodePayload(h)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - health encode: %v", logPrefix, err))
			return
		}
		w.Write(data)
	}
}

// dirWritable reports whether dir exists (or can be created) and accepts writes.
func dirWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// homePageTemplate is the HTML for the bridge home page (white bg, black/blue text).
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Media Bridge</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2, h3 { color: #0066cc; }
    table { border-collapse: collapse; width: 100%; max-width: 900px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .stat { font-weight: bold; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
    .latency-long { color: #cc6600; }
  </style>
</head>
<body>
  <h1>Media Bridge</h1>
  <p class="meta">Generative-media tool catalogue and routing.</p>

  <section>
    <h2>Registry</h2>
    <p>Model registry: <span class="stat">{{.RegistryName}}</span> version <span class="stat">{{.RegistryVersion}}</span></p>
    <p>Tools available: <span class="stat">{{len .Tools}}</span></p>
  </section>

  <section>
    <h2>Tools</h2>
    <table>
      <thead>
        <tr><th>Tool</th><th>Model</th><th>Kind</th><th>Latency</th></tr>
      </thead>
      <tbody>
        {{range .Tools}}
        <tr>
          <td>{{.Name}}</td>
          <td>{{.Model}}</td>
          <td>{{.Kind}}</td>
          <td{{if eq .Latency "long"}} class="latency-long"{{end}}>{{.Latency}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </section>
</body>
</html>
`

// homeData is the data passed to the home page template.
type homeData struct {
	RegistryName    string
	RegistryVersion string
	Tools           []homeTool
}

type homeTool struct {
	Name    string
	Model   string
	Kind    string
	Latency string
}

// handleHome returns an HTTP handler for the bridge home page.
func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		data := homeData{
			RegistryName:    s.resolved.Name(),
			RegistryVersion: s.resolved.Version(),
		}
		for _, op := range s.cat.List() {
			data.Tools = append(data.Tools, homeTool{
				Name:    op.Name,
				Model:   op.Model,
				Kind:    string(op.Kind),
				Latency: string(op.Latency),
			})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
