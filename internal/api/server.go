// Package api serves type introspection over HTTP. Reads are open; loading
// and redefining definitions require a bearer token when an Authenticator
// is configured.
package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/internal/inspect"
	"github.com/conduit-lang/classmeta/internal/store"
	"github.com/conduit-lang/classmeta/internal/vm"
	"github.com/conduit-lang/classmeta/runtime/classes"
	"github.com/conduit-lang/classmeta/runtime/text"
)

// maxBodySize bounds definition uploads
const maxBodySize = 4 << 20

// Server is the HTTP surface over a Machine
type Server struct {
	machine *vm.Machine
	store   store.Store
	auth    *Authenticator
	logger  *zap.Logger
	text    text.Config

	// writes serializes loads and redefinitions
	writes sync.Mutex
	router chi.Router
}

// Option configures a Server
type Option func(*Server)

// WithStore persists uploaded documents
func WithStore(s store.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithAuthenticator guards the mutating endpoints
func WithAuthenticator(a *Authenticator) Option {
	return func(srv *Server) { srv.auth = a }
}

// WithLogger sets the request and error logger
func WithLogger(logger *zap.Logger) Option {
	return func(srv *Server) {
		if logger != nil {
			srv.logger = logger
		}
	}
}

// WithTextConfig bounds the builders used for listings
func WithTextConfig(cfg text.Config) Option {
	return func(srv *Server) { srv.text = cfg }
}

// New creates a Server and registers its routes
func New(machine *vm.Machine, opts ...Option) *Server {
	s := &Server{
		machine: machine,
		logger:  zap.NewNop(),
		text:    text.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/types", func(r chi.Router) {
		r.Get("/", s.handleListTypes)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleType)
			r.Get("/fields", s.handleFields)
			r.Get("/fields/{field}", s.handleField)
			r.Get("/methods", s.handleMethods)
			r.Get("/methods/{method}", s.handleMethod)
			r.Get("/constructors", s.handleConstructors)
			r.Get("/hierarchy", s.handleHierarchy)
			r.Get("/listing", s.handleListing)
			r.With(s.protect).Put("/", s.handleRedefine)
		})
	})
	r.With(s.protect).Post("/definitions", s.handleLoad)
	return r
}

func (s *Server) protect(next http.Handler) http.Handler {
	if s.auth == nil {
		return next
	}
	return s.auth.RequireToken(next)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// fail renders err, logging server-side failures
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	renderError(w, status, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"types":  len(s.machine.Universe().Types()),
	})
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	loader := r.URL.Query().Get("loader")
	views := []inspect.TypeView{}
	for _, t := range s.machine.Types() {
		if loader != "" && t.Loader().Name() != loader {
			continue
		}
		if t.IsHidden() {
			continue
		}
		views = append(views, inspect.Describe(t))
	}
	renderJSON(w, http.StatusOK, views)
}

// target resolves the {name} route parameter against the loader named by
// the "loader" query parameter
func (s *Server) target(r *http.Request) (*classes.Type, error) {
	name, err := pathParam(r, "name")
	if err != nil {
		return nil, err
	}
	return s.machine.Resolve(r.URL.Query().Get("loader"), name)
}

func pathParam(r *http.Request, key string) (string, error) {
	v, err := url.PathUnescape(chi.URLParam(r, key))
	if err != nil {
		return "", fmt.Errorf("malformed %s: %w", key, classes.ErrInvalid)
	}
	return v, nil
}

func declared(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("declared"))
	return v
}

// params resolves the comma separated "params" query parameter
func (s *Server) params(r *http.Request) ([]*classes.Type, error) {
	raw := r.URL.Query().Get("params")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []*classes.Type
	for _, ref := range strings.Split(raw, ",") {
		t, err := s.machine.Resolve(r.URL.Query().Get("loader"), ref)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	t, err := s.target(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, inspect.Describe(t))
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	t, err := s.target(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, inspect.Fields(t, declared(r)))
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	t, err := s.target(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name, err := pathParam(r, "field")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lookup := t.Field
	if declared(r) {
		lookup = t.DeclaredField
	}
	f, err := lookup(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, inspect.Field(f))
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	t, err := s.target(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, inspect.Methods(t, declared(r)))
}

func (s *Server) handleMethod(w http.ResponseWriter, r *http.Request) {
	t, err := s.target(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name, err := pathParam(r, "method")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	params, err := s.params(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lookup := t.Method
	if declared(r) {
		lookup = t.DeclaredMethod
	}
	m, err := lookup(name, params...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, inspect.Method(m))
}

func (s *Server) handleConstructors(w http.ResponseWriter, r *http.Request) {
	t, err := s.target(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, inspect.Constructors(t, declared(r)))
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	t, err := s.target(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, inspect.Hierarchy(t))
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	t, err := s.target(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	listing, err := inspect.Listing(t, s.text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, listing)
}

// bodyFormat picks the definition format from the Content-Type header.
// JSON is the default.
func bodyFormat(r *http.Request) (classdef.Format, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return classdef.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", fmt.Errorf("malformed content type: %w", classdef.ErrUnsupportedFormat)
	}
	switch mt {
	case "application/json":
		return classdef.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return classdef.FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", mt, classdef.ErrUnsupportedFormat)
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) > maxBodySize {
		return nil, fmt.Errorf("request body exceeds %d bytes: %w", maxBodySize, classes.ErrInvalid)
	}
	return data, nil
}

// LoadResponse reports the types defined by an upload
type LoadResponse struct {
	Key   string   `json:"key,omitempty"`
	Types []string `json:"types"`
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	format, err := bodyFormat(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := readBody(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := classdef.Parse(data, format)
	if err != nil {
		renderError(w, http.StatusBadRequest, err)
		return
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	types, err := s.machine.Load(doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := LoadResponse{Types: make([]string, len(types))}
	for i, t := range types {
		resp.Types[i] = t.Name()
	}

	if s.store != nil {
		key := r.URL.Query().Get("key")
		if key == "" {
			key = uuid.NewString()
		}
		if err := s.store.Put(r.Context(), key, doc); err != nil {
			s.logger.Warn("loaded definitions were not persisted",
				zap.String("key", key),
				zap.Error(err))
			s.fail(w, r, err)
			return
		}
		resp.Key = key
	}
	renderJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRedefine(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format, err := bodyFormat(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := readBody(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	def, err := classdef.ParseClass(data, format)
	if err != nil {
		renderError(w, http.StatusBadRequest, err)
		return
	}
	if def.Name != name {
		renderError(w, http.StatusBadRequest, errors.New("class name does not match the path"))
		return
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	t, err := s.machine.Redefine(r.URL.Query().Get("loader"), *def)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, inspect.Describe(t))
}
