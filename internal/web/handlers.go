// Package web serves the Embedding Wrangler page.
package web

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"embedding-wrangler/internal/httputil"
	"embedding-wrangler/internal/session"
	"embedding-wrangler/internal/wrangler"
)

const sessionCookie = "wrangler_session"

type ctxKey struct{}

// Handler wires the page and its four forms to the wrangler flows.
type Handler struct {
	wrangler *wrangler.Wrangler
	sessions session.Store
	renderer *Renderer
	log      *slog.Logger
	ttl      time.Duration
}

// NewHandler builds the page handler. ttl sets the session cookie lifetime.
func NewHandler(w *wrangler.Wrangler, sessions session.Store, log *slog.Logger, ttl time.Duration) (*Handler, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Handler{
		wrangler: w,
		sessions: sessions,
		renderer: renderer,
		log:      log,
		ttl:      ttl,
	}, nil
}

// Routes mounts the UI on r.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.withSession)
		r.Get("/", h.index)
		r.Get("/api/state", h.state)
		r.Post("/compare", h.compare)
		r.Post("/neighbors", h.neighbors)
		r.Post("/arithmetic", h.arithmetic)
		r.Post("/visualize", h.visualize)
	})
	r.Get("/healthz", httputil.HealthHandler(h.log))
}

// withSession makes sure every request carries a valid session id.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := session.NewID()
		if c, err := r.Cookie(sessionCookie); err == nil && session.ValidID(c.Value) {
			id = c.Value
		}
		// Refresh on every request so the cookie slides with the stored state.
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(h.ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.Load(r.Context(), sessionID(r))
	if err != nil {
		httputil.Fail(h.log, w, "failed to load session", err, http.StatusInternalServerError)
		return
	}

	// Render into a buffer so a template error never leaves a half-written page.
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, st); err != nil {
		httputil.Fail(h.log, w, "failed to render page", err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("page write failed", "err", err)
	}
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.Load(r.Context(), sessionID(r))
	if err != nil {
		httputil.Fail(h.log, w, "failed to load session", err, http.StatusInternalServerError)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.wrangler.Compare(r.Context(), r.PostFormValue("word1"), r.PostFormValue("word2")))
}

func (h *Handler) neighbors(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.wrangler.FindNeighbors(r.Context(), r.PostFormValue("word1"), 0))
}

func (h *Handler) arithmetic(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.wrangler.Arithmetic(r.Context(), r.PostFormValue("word1"), r.PostFormValue("word2")))
}

func (h *Handler) visualize(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.sessions.Load(r.Context(), sessionID(r))
	if err != nil {
		httputil.Fail(h.log, w, "failed to load session", err, http.StatusInternalServerError)
		return
	}
	h.apply(w, r, h.wrangler.Visualize(r.Context(), r.PostFormValue("word1"), r.PostFormValue("word2"), snapshot.Neighbors))
}

// apply stores the outcome of a flow and sends the browser back to the page.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, update wrangler.Update) {
	if _, err := h.sessions.Update(r.Context(), sessionID(r), update); err != nil {
		httputil.Fail(h.log, w, "failed to save session", err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
