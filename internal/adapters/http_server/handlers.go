package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"tripstay/internal/app"
	"tripstay/internal/domain"
	"tripstay/internal/recommend"
)

type Handlers struct {
	Q *app.QueryService
	R *app.RecommendationService
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
		r.Get("/hotels/{id}", h.getHotel)
		r.Get("/hotels/{id}/packages", h.listPackages)
		r.Post("/hotels/{id}/score", h.scoreHotel)
		r.Post("/recommendations", h.recommend)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
	case errors.Is(err, recommend.ErrInvalidPreferences):
		writeProblem(w, http.StatusBadRequest, "Invalid Preferences", err.Error())
	default:
		log.Error().Err(err).Str("resource", what).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves v with a weak ETag, answering 304 when the client
// already holds this version.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func hotelID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	return id, id != "" && len(id) <= 64
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be 1-64 characters")
		return
	}
	resp, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, err, "hotel")
		return
	}
	writeCacheable(w, r, resp)
}

func (h *Handlers) listPackages(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be 1-64 characters")
		return
	}
	out, err := h.Q.ListPackages(r.Context(), id)
	if err != nil {
		writeError(w, err, "hotel")
		return
	}
	if out == nil {
		out = []domain.TourPackage{}
	}
	writeCacheable(w, r, map[string]any{"hotel_id": id, "items": out})
}

func (h *Handlers) scoreHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be 1-64 characters")
		return
	}
	var body preferencesDTO
	if err := decodeBody(r, &body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	if err := validate.Struct(body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Failed", describeValidation(err))
		return
	}
	p := body.toDomain()
	if p.TripDuration == 0 {
		p.TripDuration = 1 // the composite does not depend on duration
	}
	res, err := h.R.ScoreHotel(r.Context(), id, p)
	if err != nil {
		writeError(w, err, "hotel")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	var body recommendRequestDTO
	if err := decodeBody(r, &body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	if err := body.check(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Failed", describeValidation(err))
		return
	}
	page, err := h.R.Recommend(r.Context(), body.toRequest())
	if err != nil {
		writeError(w, err, "recommendations")
		return
	}
	if page.Items == nil {
		page.Items = []domain.Recommendation{}
	}
	writeJSON(w, http.StatusOK, page)
}
