package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-loanform/internal/logger"
	"github.com/goliatone/go-loanform/pkg/controller"
	"github.com/goliatone/go-loanform/pkg/loan"
	"github.com/goliatone/go-loanform/pkg/renderers/vanilla"
)

// RequestIDHeader carries the id assigned to each page request.
const RequestIDHeader = "X-Request-ID"

// Page is the rendered page session the handlers drive.
type Page interface {
	controller.UI
	Render(out ...io.Writer) (string, error)
	ContentType() string
}

// Actions is the controller surface behind the page routes.
type Actions interface {
	LoadList(ctx context.Context) error
	BeginEdit(ctx context.Context, id int64) error
	SubmitForm(ctx context.Context) error
	DeleteRecord(ctx context.Context, id int64) error
	CancelEdit()
	BeginAdd()
}

var _ Actions = (*controller.Controller)(nil)

// Server serves one page session backed by one controller.
type Server struct {
	actions       Actions
	page          Page
	log           logger.Logger
	metrics       http.Handler
	assets        fs.FS
	shutdownGrace time.Duration
	mux           *http.ServeMux
}

// New wires the page routes. It panics when actions or page is nil.
func New(actions Actions, page Page, options ...Option) *Server {
	if actions == nil || page == nil {
		panic("server: actions and page are required")
	}
	s := &Server{
		actions:       actions,
		page:          page,
		log:           logger.NewNoOpLogger(),
		assets:        vanilla.AssetsFS(),
		shutdownGrace: DefaultShutdownGrace,
		mux:           http.NewServeMux(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.routes()
	return s
}

// Handler returns the router wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /loans", s.handleSubmit)
	s.mux.HandleFunc("POST /loans/{id}/edit", s.handleEdit)
	s.mux.HandleFunc("POST /loans/{id}/delete", s.handleDelete)
	s.mux.HandleFunc("POST /cancel", s.handleCancel)
	s.mux.HandleFunc("POST /add", s.handleAdd)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
	if s.assets != nil {
		s.mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(s.assets)))
	}
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	s.log.Info("page server listening", map[string]interface{}{"addr": addr})

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// handleIndex reloads the list and renders the page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.actions.LoadList(r.Context()); err != nil {
		s.log.WithError(err).Debug("render with stale rows", nil)
	}
	w.Header().Set("Content-Type", s.page.ContentType())
	if _, err := s.page.Render(w); err != nil {
		s.log.WithError(err).Error("render page failed", nil)
		http.Error(w, "render page", http.StatusInternalServerError)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	values := make(loan.Values, len(loan.FieldNames))
	for _, name := range loan.FieldNames {
		values[name] = r.PostForm.Get(name)
	}
	s.page.SetFieldValues(values)

	if err := s.actions.SubmitForm(r.Context()); err != nil {
		s.log.WithError(err).Debug("submit rejected", nil)
	}
	redirectHome(w, r)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.actions.BeginEdit(r.Context(), id); err != nil {
		s.log.WithError(err).Debug("begin edit failed", map[string]interface{}{"id": id})
	}
	redirectHome(w, r)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	confirmed := strings.EqualFold(r.PostForm.Get("confirm"), "yes")
	ctx := vanilla.WithConfirmation(r.Context(), confirmed)
	if err := s.actions.DeleteRecord(ctx, id); err != nil {
		s.log.WithError(err).Debug("delete failed", map[string]interface{}{"id": id})
	}
	redirectHome(w, r)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.actions.CancelEdit()
	redirectHome(w, r)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.actions.BeginAdd()
	redirectHome(w, r)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid loan id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.log.Info("page request", map[string]interface{}{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"elapsed":    time.Since(start).String(),
		})
	})
}
