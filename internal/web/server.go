package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/afreitas/revisio/internal/domain"
	"github.com/afreitas/revisio/internal/schedule"
	"github.com/afreitas/revisio/internal/scope"
	"github.com/afreitas/revisio/internal/storage"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// SourceStore is the slice of the storage layer that manages topic sources.
type SourceStore interface {
	InsertSource(ctx context.Context, path, sourceType string) (int64, error)
	GetAllSources(ctx context.Context) ([]storage.Source, error)
	DeleteSource(ctx context.Context, id int64) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	store     storage.Store
	sources   SourceStore
	resolver  scope.Resolver
	runSync   func(context.Context) error
	router    *http.ServeMux
	templates *template.Template
	now       func() time.Time
}

// NewServer creates and configures a new server. runSync is invoked by the
// manual sync endpoint and may be nil when syncing is not wired up.
func NewServer(store storage.Store, sources SourceStore, resolver scope.Resolver, runSync func(context.Context) error) *Server {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	s := &Server{
		store:     store,
		sources:   sources,
		resolver:  resolver,
		runSync:   runSync,
		router:    http.NewServeMux(),
		templates: tpl,
		now:       time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("Failed to create sub-filesystem for static assets: %v", err)
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /{$}", s.handleIndex())
	s.router.HandleFunc("GET /dashboard", s.handleGetDashboard())
	s.router.HandleFunc("POST /sessions", s.handlePostSession())
	s.router.HandleFunc("GET /sessions/preview", s.handleSessionPreview())
	s.router.HandleFunc("POST /sessions/{id}/toggle", s.handleToggleReviewed())
	s.router.HandleFunc("GET /events", s.handleEvents())

	s.router.HandleFunc("GET /rules", s.handleGetRules())
	s.router.HandleFunc("POST /rules", s.handlePostRules())
	s.router.HandleFunc("POST /rules/preview", s.handleRulesPreview())

	s.router.HandleFunc("GET /sources", s.handleGetSources())
	s.router.HandleFunc("POST /sources", s.handlePostSource())
	s.router.HandleFunc("DELETE /sources/{id}", s.handleDeleteSource())
	s.router.HandleFunc("POST /sync", s.handlePostSync())
}

// resolveScope maps the request to its owner scope or writes a 401.
func (s *Server) resolveScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	sc, err := s.resolver.Resolve(r)
	if err != nil {
		http.Error(w, "Unknown scope", http.StatusUnauthorized)
		return "", false
	}
	return sc, true
}

// loadRules returns the scope's saved rules, falling back to the defaults
// when the scope has never saved any.
func (s *Server) loadRules(ctx context.Context, sc string) ([]domain.Rule, error) {
	rules, err := s.store.GetRules(ctx, sc)
	if errors.Is(err, storage.ErrNotFound) {
		return schedule.DefaultRules(), nil
	}
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := s.resolveScope(w, r)
		if !ok {
			return
		}
		ctx := r.Context()

		dashboard, err := s.dashboardData(ctx, sc, schedule.FilterSpec{Status: "all"})
		if err != nil {
			log.Printf("Error building dashboard for scope %s: %v", sc, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		form, err := s.sessionFormData(ctx, sessionFormView{StudiedAt: schedule.Date(s.now()).Format(schedule.DateLayout)})
		if err != nil {
			log.Printf("Error building session form: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		rules, err := s.loadRules(ctx, sc)
		if err != nil {
			log.Printf("Error loading rules for scope %s: %v", sc, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		sources, err := s.sourceListData(ctx, "")
		if err != nil {
			log.Printf("Error listing sources: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		s.render(w, "index", map[string]any{
			"Today":     schedule.Date(s.now()).Format(schedule.DateLayout),
			"Dashboard": dashboard,
			"Form":      form,
			"Rules":     rulesView{Rules: rules},
			"Sources":   sources,
		})
	}
}

func (s *Server) handleGetDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := s.resolveScope(w, r)
		if !ok {
			return
		}
		spec := schedule.FilterSpec{
			Status: r.URL.Query().Get("status"),
			Text:   r.URL.Query().Get("q"),
		}
		data, err := s.dashboardData(r.Context(), sc, spec)
		if err != nil {
			log.Printf("Error building dashboard for scope %s: %v", sc, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "dashboard", data)
	}
}

func (s *Server) handlePostSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := s.resolveScope(w, r)
		if !ok {
			return
		}
		ctx := r.Context()

		input := schedule.SessionInput{
			Topic:            r.PostFormValue("topic"),
			StudiedAt:        r.PostFormValue("studied_at"),
			QuestionsTotal:   parseIntField(r.PostFormValue("questions_total"), 0),
			QuestionsCorrect: parseIntField(r.PostFormValue("questions_correct"), -1),
		}

		rules, err := s.loadRules(ctx, sc)
		if err != nil {
			log.Printf("Error loading rules for scope %s: %v", sc, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		session, err := schedule.NewSession(input, rules)
		if err != nil {
			// Validation failed: nothing was written. Re-render the form
			// with the user's values and a field-specific message.
			form, buildErr := s.sessionFormData(ctx, sessionFormView{
				Topic:            input.Topic,
				StudiedAt:        input.StudiedAt,
				QuestionsTotal:   r.PostFormValue("questions_total"),
				QuestionsCorrect: r.PostFormValue("questions_correct"),
				Notice:           &notice{Kind: "err", Text: validationMessage(err)},
			})
			if buildErr != nil {
				log.Printf("Error building session form: %v", buildErr)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			s.render(w, "session_form", form)
			return
		}

		if _, err := s.store.AppendSession(ctx, sc, session); err != nil {
			log.Printf("Error appending session for scope %s: %v", sc, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		form, err := s.sessionFormData(ctx, sessionFormView{
			StudiedAt: schedule.Date(s.now()).Format(schedule.DateLayout),
			Notice:    &notice{Kind: "ok", Text: "Session saved."},
		})
		if err != nil {
			log.Printf("Error building session form: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "session_form", form)
	}
}

// handleSessionPreview computes the live preview for the session form.
// It always uses the scope's currently saved rules, never a cached or
// default set, so the preview matches exactly what a save would produce.
func (s *Server) handleSessionPreview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := s.resolveScope(w, r)
		if !ok {
			return
		}
		q := r.URL.Query()
		input := schedule.SessionInput{
			Topic:            "preview", // topic does not affect the schedule
			StudiedAt:        q.Get("studied_at"),
			QuestionsTotal:   parseIntField(q.Get("questions_total"), 0),
			QuestionsCorrect: parseIntField(q.Get("questions_correct"), -1),
		}

		rules, err := s.loadRules(r.Context(), sc)
		if err != nil {
			log.Printf("Error loading rules for scope %s: %v", sc, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		session, err := schedule.NewSession(input, rules)
		if err != nil {
			s.render(w, "preview", previewView{Message: "Fill in the session to see the schedule."})
			return
		}
		s.render(w, "preview", previewView{
			Accuracy:     session.Accuracy,
			IntervalDays: session.IntervalDays,
			NextReviewAt: session.NextReviewAt.Format(schedule.DateLayout),
		})
	}
}

func (s *Server) handleToggleReviewed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := s.resolveScope(w, r)
		if !ok {
			return
		}
		ctx := r.Context()
		id := r.PathValue("id")

		session, err := s.store.GetSession(ctx, sc, id)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			log.Printf("Error getting session %s: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		toggled := schedule.ToggleReviewed(session, s.now())
		if err := s.store.SetReviewed(ctx, sc, id, toggled.Reviewed, toggled.ReviewedAt); err != nil {
			log.Printf("Error toggling session %s: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleEvents streams a server-sent event per store change so the browser
// can refresh the dashboard. The subscription is cancelled when the client
// disconnects.
func (s *Server) handleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := s.resolveScope(w, r)
		if !ok {
			return
		}
		flusher, canFlush := w.(http.Flusher)
		if !canFlush {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")

		snapshots, cancel := s.store.Subscribe(sc)
		defer cancel()

		for {
			select {
			case <-r.Context().Done():
				return
			case snap := <-snapshots:
				// The payload is only a change signal; handlers re-query
				// through the store, so the count is informational.
				fmt.Fprintf(w, "data: %d\n\n", len(snap))
				flusher.Flush()
			}
		}
	}
}

// dashboardData classifies, aggregates and filters the scope's sessions
// into a render-ready view.
func (s *Server) dashboardData(ctx context.Context, sc string, spec schedule.FilterSpec) (dashboardView, error) {
	sessions, err := s.store.ListSessions(ctx, sc)
	if err != nil {
		return dashboardView{}, fmt.Errorf("list sessions: %w", err)
	}
	now := s.now()

	view := dashboardView{
		KPIs:   s.kpisView(schedule.Aggregate(sessions, now)),
		Filter: spec,
		StatusOptions: []statusOption{
			{Value: "all", Label: "All"},
			{Value: string(domain.StatusOverdue), Label: "Overdue"},
			{Value: string(domain.StatusDueSoon), Label: "Due this week"},
			{Value: string(domain.StatusOpen), Label: "Open"},
			{Value: string(domain.StatusDone), Label: "Reviewed"},
		},
	}

	for _, session := range schedule.Filter(sessions, spec, now) {
		status := schedule.Classify(session, now)
		view.Sessions = append(view.Sessions, sessionRowView{
			ID:           session.ID,
			Topic:        session.Topic,
			StudiedAt:    session.StudiedAt.Format(schedule.DateLayout),
			Accuracy:     session.Accuracy,
			NextReviewAt: session.NextReviewAt.Format(schedule.DateLayout),
			Reviewed:     session.Reviewed,
			StatusLabel:  schedule.StatusLabel(status, session, now),
			BadgeClass:   badgeClass(status),
		})
	}
	return view, nil
}

func (s *Server) kpisView(k schedule.KPIs) kpisView {
	view := kpisView{
		OverdueCount: k.OverdueCount,
		DueSoonCount: k.DueSoonCount,
		AverageText:  "—",
	}
	if k.AverageAccuracy != nil {
		view.AverageText = fmt.Sprintf("%d%%", *k.AverageAccuracy)
	}
	return view
}

func (s *Server) sessionFormData(ctx context.Context, form sessionFormView) (sessionFormView, error) {
	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		return sessionFormView{}, fmt.Errorf("list topics: %w", err)
	}
	for _, t := range topics {
		form.Topics = append(form.Topics, t.Name)
	}
	return form, nil
}

func badgeClass(status domain.Status) string {
	switch status {
	case domain.StatusOverdue:
		return "badge--danger"
	case domain.StatusDueSoon:
		return "badge--warn"
	case domain.StatusDone:
		return "badge--ok"
	default:
		return "badge--soft"
	}
}

// validationMessage maps a validation failure to its user-facing text.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, schedule.ErrInvalidDate):
		return "Enter a valid study date."
	case errors.Is(err, schedule.ErrMissingTopic):
		return "Enter the topic."
	case errors.Is(err, schedule.ErrInvalidTotal):
		return "Questions done must be greater than zero."
	case errors.Is(err, schedule.ErrInvalidCorrect):
		return "Correct answers must be between zero and questions done."
	default:
		return err.Error()
	}
}

// parseIntField parses a form number, mapping blank or malformed input to
// a value the session validation will reject with the right message.
func parseIntField(v string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

// Serve runs the HTTP server until the listener fails.
func Serve(addr string, handler http.Handler) error {
	slog.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, handler)
}
