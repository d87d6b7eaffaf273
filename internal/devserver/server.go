// Package devserver serves generated enum modules over HTTP during
// development and pushes a reload event over a websocket whenever the
// modules are regenerated.
//
// Routes:
//
//	GET /manifest?locale=fr          manifest JSON
//	GET /modules?locale=fr           generated file list
//	GET /modules/{path}?locale=fr    one generated file
//	GET /labels?enum=X&locale=fr     labels of every case, or of one
//	                                 case with &key= or &value=
//	GET /ws                          reload events
package devserver

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/broady/enumshare"
	"github.com/broady/enumshare/lookup"
	"github.com/broady/enumshare/middleware"
	"github.com/broady/enumshare/sink"
)

// DefaultHeartbeat is the heartbeat interval used when Options leaves it
// unset.
const DefaultHeartbeat = 30 * time.Second

// BuildFunc generates the modules for locale into out. An empty locale
// requests the default.
type BuildFunc func(ctx context.Context, locale string, out sink.OutputSink) (*enumshare.Result, error)

// Options configures a Server.
type Options struct {
	Build BuildFunc

	// CORS restricts browser origins for HTTP and websocket requests.
	// Nil allows all.
	CORS *middleware.CORSConfig

	// FallbackLocale is tried for labels missing in the requested locale.
	FallbackLocale string

	// Heartbeat defaults to DefaultHeartbeat. Negative disables it.
	Heartbeat time.Duration

	Logger *zap.Logger
}

// Server caches one generated snapshot per locale until Invalidate.
type Server struct {
	opts Options
	log  *zap.Logger
	hub  *Hub

	mu        sync.Mutex
	snapshots map[string]*snapshot
}

type snapshot struct {
	result *enumshare.Result
	files  map[string][]byte
	enums  map[string]*lookup.Enum
}

// New returns a server. Call Run to start the websocket hub.
func New(opts Options) (*Server, error) {
	if opts.Build == nil {
		return nil, errors.New("devserver: no build function")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	heartbeat := opts.Heartbeat
	switch {
	case heartbeat == 0:
		heartbeat = DefaultHeartbeat
	case heartbeat < 0:
		heartbeat = 0
	}
	return &Server{
		opts:      opts,
		log:       opts.Logger,
		hub:       NewHub(opts.CORS, heartbeat, opts.Logger),
		snapshots: make(map[string]*snapshot),
	}, nil
}

// Run runs the websocket hub until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx)
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /manifest", s.handleManifest)
	mux.HandleFunc("GET /modules", s.handleModules)
	mux.HandleFunc("GET /modules/{path...}", s.handleModule)
	mux.HandleFunc("GET /labels", s.handleLabels)
	mux.Handle("GET /ws", s.hub)

	var h http.Handler = mux
	h = middleware.CORS(s.opts.CORS)(h)
	h = middleware.Logging(s.log)(h)
	return h
}

// Invalidate drops every cached snapshot and rebuilds the default locale.
// Clients receive a reload event on success and an error event otherwise.
func (s *Server) Invalidate(ctx context.Context, changed []string) error {
	s.mu.Lock()
	clear(s.snapshots)
	s.mu.Unlock()

	snap, err := s.snapshot(ctx, "")
	if err != nil {
		s.hub.Broadcast(Event{Type: EventError, Payload: ErrorPayload{Message: err.Error()}})
		return err
	}
	s.hub.Broadcast(Event{Type: EventReload, Payload: ReloadPayload{
		Changed: changed,
		Enums:   snap.result.Report.Manifest.Names(),
	}})
	return nil
}

// snapshot returns the cached snapshot for locale, building it on first use.
func (s *Server) snapshot(ctx context.Context, locale string) (*snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.snapshots[locale]; ok {
		return snap, nil
	}

	mem := sink.NewMemorySink()
	res, err := s.opts.Build(ctx, locale, mem)
	if err != nil {
		return nil, errors.Wrap(err, "build modules")
	}
	snap := &snapshot{
		result: res,
		files:  mem.Files(),
		enums:  make(map[string]*lookup.Enum),
	}
	for _, entry := range res.Report.Manifest.Entries() {
		snap.enums[entry.Name] = lookup.Build(entry, lookup.WithFallbackLocale(s.opts.FallbackLocale))
	}
	s.snapshots[locale] = snap
	s.log.Debug("built snapshot",
		zap.String("locale", locale),
		zap.Int("enums", len(snap.enums)),
		zap.Int("files", len(snap.files)))
	return snap, nil
}

func (snap *snapshot) paths() []string {
	paths := make([]string, 0, len(snap.files))
	for p := range snap.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
