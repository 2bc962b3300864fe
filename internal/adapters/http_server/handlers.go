// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"service_directory/internal/adapters/observability"
	"service_directory/internal/app"
	"service_directory/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	featuredLimit      = 4
	recentReviewsLimit = 3
)

type Handlers struct {
	Store *app.ListingStore
	Gate  *app.AdminGate
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/home", h.home)
		r.Get("/businesses", h.listBusinesses)
		r.Post("/businesses", h.createBusiness)
		r.Get("/businesses/{id}", h.getBusiness)
		r.Post("/businesses/{id}/reviews", h.addReview)
		r.Get("/suggestions/{kind}", h.suggestions)

		r.Post("/admin/login", h.adminLogin)
		r.Post("/admin/logout", h.adminLogout)
		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Put("/admin/password", h.changePassword)
			r.Get("/admin/stats", h.adminStats)
			r.Put("/admin/businesses/{id}/verification", h.setVerification)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body, nil
}

// writeCached writes v with a weak ETag, short-circuiting on If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeValue(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, status, body)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return 0, false
	}
	return id, true
}

func writeValidation(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeProblem(w, http.StatusUnprocessableEntity, "Missing Information", ve.Error())
		return
	}
	writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
}

// ---- public views ----

type homeResponse struct {
	Featured      []domain.Business      `json:"featured"`
	RecentReviews []domain.RecentReview  `json:"recentReviews"`
	Categories    []domain.CategoryCount `json:"categories"`
	Total         int                    `json:"total"`
}

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	writeCached(w, r, homeResponse{
		Featured:      app.Featured(snap, featuredLimit),
		RecentReviews: app.RecentReviews(snap, recentReviewsLimit),
		Categories:    app.CategoryCounts(snap, domain.FeaturedCategories),
		Total:         len(snap),
	})
}

type listResponse struct {
	Items []domain.Business `json:"items"`
	Count int               `json:"count"`
}

func (h *Handlers) listBusinesses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := app.Filter(h.Store.Snapshot(), domain.SearchFilter{
		Query:    q.Get("q"),
		City:     q.Get("city"),
		Category: q.Get("category"),
	})
	writeCached(w, r, listResponse{Items: items, Count: len(items)})
}

func (h *Handlers) getBusiness(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, found := h.Store.FindByID(id)
	if !found {
		writeProblem(w, http.StatusNotFound, "Not Found", "business not found")
		return
	}
	writeCached(w, r, b)
}

func (h *Handlers) createBusiness(w http.ResponseWriter, r *http.Request) {
	var in domain.NewBusiness
	if !decode(w, r, &in) {
		return
	}
	b, err := h.Store.Create(r.Context(), in)
	if err != nil {
		writeValidation(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/businesses/%d", b.ID))
	writeValue(w, http.StatusCreated, b)
}

func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	// the store ignores unknown ids; the API reports them
	if _, found := h.Store.FindByID(id); !found {
		writeProblem(w, http.StatusNotFound, "Not Found", "business not found")
		return
	}
	var in domain.NewReview
	if !decode(w, r, &in) {
		return
	}
	if err := h.Store.AddReview(r.Context(), id, in); err != nil {
		writeValidation(w, err)
		return
	}
	b, _ := h.Store.FindByID(id)
	writeValue(w, http.StatusCreated, b)
}

var suggestionSources = map[string][]string{
	"cities":             domain.Cities,
	"categories":         domain.ServiceCategories,
	"listing-categories": domain.ListingCategories,
}

func (h *Handlers) suggestions(w http.ResponseWriter, r *http.Request) {
	src, ok := suggestionSources[chi.URLParam(r, "kind")]
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown suggestion list")
		return
	}
	out := app.Suggest(src, r.URL.Query().Get("value"))
	if out == nil {
		out = []string{}
	}
	writeCached(w, r, out)
}

// ---- admin ----

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Session string `json:"session"`
}

func (h *Handlers) adminLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decode(w, r, &in) {
		return
	}
	sid, err := h.Gate.Login(r.Context(), in.Password)
	observability.ObserveLogin(err == nil)
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "admin credentials cannot be read right now")
		return
	case err != nil:
		writeProblem(w, http.StatusUnauthorized, "Login Failed", "Incorrect password. Please try again.")
		return
	}
	writeValue(w, http.StatusOK, loginResponse{Session: sid})
}

func (h *Handlers) adminLogout(w http.ResponseWriter, r *http.Request) {
	h.Gate.Logout(r.Context(), r.Header.Get(AdminSessionHeader))
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *Handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	var in changePasswordRequest
	if !decode(w, r, &in) {
		return
	}
	err := h.Gate.ChangePassword(r.Context(), in.CurrentPassword, in.NewPassword, in.ConfirmPassword)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeProblem(w, http.StatusForbidden, "Error", "Current password is incorrect.")
	case errors.Is(err, domain.ErrUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "admin credentials cannot be read right now")
	default:
		writeProblem(w, http.StatusUnprocessableEntity, "Error", err.Error())
	}
}

type statsResponse struct {
	domain.DirectoryStats
	Items []domain.Business `json:"items"`
}

func (h *Handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	writeCached(w, r, statsResponse{DirectoryStats: app.Stats(snap), Items: snap})
}

type verificationRequest struct {
	Verified bool `json:"verified"`
}

func (h *Handlers) setVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, found := h.Store.FindByID(id); !found {
		writeProblem(w, http.StatusNotFound, "Not Found", "business not found")
		return
	}
	var in verificationRequest
	if !decode(w, r, &in) {
		return
	}
	h.Store.SetVerified(r.Context(), id, in.Verified)
	b, _ := h.Store.FindByID(id)
	writeValue(w, http.StatusOK, b)
}
