package dev

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clientdist "github.com/lumen-dev/lumen/client/dist"
	"github.com/lumen-dev/lumen/internal/bundler"
	"github.com/lumen-dev/lumen/internal/config"
	"github.com/lumen-dev/lumen/internal/graph"
	"github.com/lumen-dev/lumen/internal/transform"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Verbose enables verbose logging.
	Verbose bool

	// OnBuildStart is called when a bundle build starts.
	OnBuildStart func()

	// OnBuildComplete is called when a bundle build completes.
	OnBuildComplete func(result bundler.BuildResult)

	// OnUpdate is called after a batch of hot updates is broadcast.
	OnUpdate func(ids []string, clients int)
}

// artifact is the output of one successful build: the bundle bytes and
// the module graph derived from its metadata. Replaced wholesale and
// atomically on every rebuild.
type artifact struct {
	bundle []byte
	graph  *graph.Graph
}

// Server is the development server: it bundles the project, watches
// sources, propagates changes as hot updates over WebSocket and serves
// the page, the bundle and the browser runtime.
type Server struct {
	config      *config.Config
	options     ServerOptions
	bundler     *bundler.Bundler
	transformer *transform.Transformer
	watcher     *Watcher
	hub         *Hub
	pipeline    *Pipeline
	changeCh    chan Change
	httpServer  *http.Server
	current     atomic.Pointer[artifact]
	mu          sync.Mutex
	running     bool
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	projectDir := cfg.Dir()

	b := bundler.New(bundler.Config{
		Root:       projectDir,
		Entry:      cfg.Entry,
		BinaryPath: cfg.Esbuild,
		Target:     cfg.Target,
		External:   cfg.External,
		Sourcemap:  cfg.Build.Sourcemap,
	})

	tr := transform.New(transform.Config{
		Root:   projectDir,
		Target: cfg.Target,
		Syntax: transform.NewEsbuildTransformer(cfg.Esbuild),
	})

	watcher := NewWatcher(WatcherConfig{
		Paths:    CollectWatchPaths(cfg),
		Ignore:   append(DefaultIgnore, cfg.Dev.Ignore...),
		Debounce: 100 * time.Millisecond,
	})

	hub := NewHub()

	s := &Server{
		config:      cfg,
		options:     options,
		bundler:     b,
		transformer: tr,
		watcher:     watcher,
		hub:         hub,
	}

	s.pipeline = &Pipeline{
		Graph:       s.Graph,
		Transformer: tr,
		Notifier:    hub,
		Hot:         cfg.Dev.HotUpdate,
	}

	return s
}

// Graph returns the module graph of the latest successful build, or an
// empty graph before the first one.
func (s *Server) Graph() *graph.Graph {
	if a := s.current.Load(); a != nil {
		return a.graph
	}
	return graph.New()
}

// Bundle returns the latest bundle bytes, or nil before the first
// successful build.
func (s *Server) Bundle() []byte {
	if a := s.current.Load(); a != nil {
		return a.bundle
	}
	return nil
}

// ClientCount returns the number of connected update clients.
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}

// Start starts the development server. It blocks until ctx is done or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	// Initial build
	s.log("Building...")
	if ok := s.rebuild(ctx); ok {
		s.log("Ready")
	}

	// Set up watcher callback
	s.changeCh = make(chan Change, 64)
	s.watcher.OnChange(func(change Change) {
		select {
		case s.changeCh <- change:
		default:
		}
	})

	// Start watcher in background
	go s.watcher.Start(ctx)
	go s.processChanges(ctx)

	s.httpServer = &http.Server{
		Addr:    s.config.DevAddress(),
		Handler: s.routes(),
	}

	s.log("Server running at %s", s.config.DevURL())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop stops the development server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	s.watcher.Stop()
	s.hub.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// routes builds the HTTP handler.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/_lumen/hmr", s.hub.HandleWebSocket)
	r.Get("/_lumen/client.js", s.handleClientJS)
	r.Get("/bundle.js", s.handleBundle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/*", s.handleStatic)

	return r
}

func (s *Server) handleClientJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(clientdist.RuntimeJS)
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	bundle := s.Bundle()
	if bundle == nil {
		http.Error(w, "bundle not built yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(bundle)
}

// handleStatic serves files from the static directory; requests for the
// root (or paths without a matching file) fall back to the host page.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	staticDir := s.config.StaticPath()

	if r.URL.Path != "/" {
		p := filepath.Join(staticDir, filepath.FromSlash(r.URL.Path))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			http.ServeFile(w, r, p)
			return
		}
	}

	indexPath := filepath.Join(staticDir, "index.html")
	if _, err := os.Stat(indexPath); err == nil {
		http.ServeFile(w, r, indexPath)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<div id="app"></div>
<script src="/_lumen/client.js"></script>
<script src="/bundle.js"></script>
</body>
</html>`, s.pageTitle())
}

func (s *Server) pageTitle() string {
	if s.config.Name != "" {
		return s.config.Name
	}
	return "Lumen Dev Server"
}

// processChanges serializes file change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-s.changeCh:
			changes := []Change{change}
			draining := true
			for draining {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next)
				default:
					draining = false
				}
			}
			s.handleChanges(ctx, changes)
		}
	}
}

// handleChanges handles a batch of file changes: rebuild the bundle,
// then propagate each changed module that is part of the graph.
func (s *Server) handleChanges(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}

	for _, change := range changes {
		s.log("Changed: %s", change.Path)
	}

	if !s.rebuild(ctx) {
		return
	}
	s.hub.ClearError()

	g := s.Graph()
	seen := make(map[string]bool)
	var broadcast []string
	for _, change := range changes {
		id, ok := s.moduleID(change.Path)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true

		if _, known := g.Get(id); !known {
			// Changed file is not part of the graph (yet): the rebuild
			// already refreshed the bundle, reload to pick it up.
			s.hub.NotifyReload()
			s.log("Reloaded %d clients", s.hub.ClientCount())
			return
		}

		ids, err := s.pipeline.Propagate(ctx, id)
		if err != nil {
			s.logError("Update failed: %v", err)
			return
		}
		broadcast = append(broadcast, ids...)
	}

	if len(broadcast) > 0 {
		if s.options.OnUpdate != nil {
			s.options.OnUpdate(broadcast, s.hub.ClientCount())
		}
		s.log("Updated %d modules on %d clients", len(broadcast), s.hub.ClientCount())
	}
}

// rebuild runs a bundle build and atomically publishes the new artifact.
// On failure the previous artifact stays current and clients get the
// error overlay.
func (s *Server) rebuild(ctx context.Context) bool {
	if s.options.OnBuildStart != nil {
		s.options.OnBuildStart()
	}

	result := s.bundler.Build(ctx)
	metricsBuild(result.Success, result.Duration)

	if s.options.OnBuildComplete != nil {
		s.options.OnBuildComplete(result)
	}

	if !result.Success {
		s.logError("Build failed:\n%s", result.Output)
		s.hub.NotifyError(result.Output)
		return false
	}

	g, inconsistencies := graph.FromMetafile(result.Metafile)
	for _, inc := range inconsistencies {
		s.logError("Metadata inconsistency: %s imports unknown module %s", inc.ModuleID, inc.Target)
	}

	// The raw build output validates sources and yields metadata; the
	// served bundle is reassembled from per-module wrappers so every
	// module registers with the runtime before hot updates arrive.
	bundle, err := s.pipeline.Assemble(ctx, g)
	if err != nil {
		s.logError("Assemble failed: %v", err)
		s.hub.NotifyError(err.Error())
		return false
	}

	s.current.Store(&artifact{bundle: bundle, graph: g})
	s.log("Built in %s (%d modules)", result.Duration.Round(time.Millisecond), g.Len())
	return true
}

// moduleID converts an absolute changed path into a module id: the
// slash-separated path relative to the project root.
func (s *Server) moduleID(path string) (string, bool) {
	rel, err := filepath.Rel(s.config.Dir(), path)
	if err != nil {
		return "", false
	}
	if rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// log logs a timestamped message.
func (s *Server) log(format string, args ...any) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// logError logs an error message.
func (s *Server) logError(format string, args ...any) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(os.Stderr, "[%s] %s%s%s\n", timestamp, "\033[31m", fmt.Sprintf(format, args...), "\033[0m")
}
