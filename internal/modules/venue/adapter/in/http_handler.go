package in

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	venuedto "anticafe/internal/modules/venue/dto"
	venuein "anticafe/internal/modules/venue/port/in"
	apperrors "anticafe/internal/platform/errors"
)

type tableResponse struct {
	Number    int        `json:"number"`
	Occupied  bool       `json:"occupied"`
	Minutes   int64      `json:"minutes"`
	Cost      float64    `json:"cost"`
	Rate      float64    `json:"rate_per_minute"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Table     int       `json:"table"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Minutes   int64     `json:"minutes"`
	Cost      float64   `json:"cost"`
	Path      string    `json:"path,omitempty"`
}

type toggleResponse struct {
	Table     tableResponse    `json:"table"`
	Started   bool             `json:"started"`
	Restarted bool             `json:"restarted,omitempty"`
	Session   *sessionResponse `json:"session,omitempty"`
	Warning   string           `json:"warning,omitempty"`
}

type currentResponse struct {
	At     time.Time       `json:"at"`
	Tables []tableResponse `json:"tables"`
	Total  float64         `json:"total"`
}

type archiveTableResponse struct {
	Number   int     `json:"number"`
	Sessions int     `json:"sessions"`
	Earnings float64 `json:"earnings"`
}

type archiveResponse struct {
	TotalEarnings  float64                `json:"total_earnings"`
	TotalSessions  int                    `json:"total_sessions"`
	TotalMinutes   int64                  `json:"total_minutes"`
	AverageMinutes float64                `json:"average_minutes"`
	MostUsed       *int                   `json:"most_used_table"`
	MostProfitable *int                   `json:"most_profitable_table"`
	Tables         []archiveTableResponse `json:"tables"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPHandler serves the venue status API.
type HTTPHandler struct {
	usecase venuein.Usecase
	logger  zerolog.Logger
}

func NewHTTPHandler(usecase venuein.Usecase, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{usecase: usecase, logger: logger.With().Str("component", "http").Logger()}
}

// Router registers the API routes. metrics is mounted at /metrics when set.
func (h *HTTPHandler) Router(metrics http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tables", h.listTables).Methods(http.MethodGet)
	api.HandleFunc("/tables/{number:[0-9]+}/toggle", h.toggle).Methods(http.MethodPost)
	api.HandleFunc("/statistics/current", h.current).Methods(http.MethodGet)
	api.HandleFunc("/statistics/archive", h.archive).Methods(http.MethodGet)

	if metrics != nil {
		r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}
	return r
}

func (h *HTTPHandler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.usecase.ListTables(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]tableResponse, 0, len(tables))
	for _, table := range tables {
		out = append(out, toTableResponse(table))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) toggle(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		h.writeError(w, apperrors.ErrInvalidInput)
		return
	}
	result, err := h.usecase.Toggle(r.Context(), number)
	if err != nil && result.Table.Number == 0 {
		h.writeError(w, err)
		return
	}
	resp := toggleResponse{Table: toTableResponse(result.Table), Started: result.Started, Restarted: result.Restarted}
	if result.Session != nil {
		resp.Session = &sessionResponse{
			ID:        result.Session.SessionID,
			Table:     result.Session.Table,
			StartedAt: result.Session.StartedAt,
			EndedAt:   result.Session.EndedAt,
			Minutes:   result.Session.Minutes,
			Cost:      result.Session.Cost,
			Path:      result.Session.Path,
		}
	}
	if err != nil {
		resp.Warning = err.Error()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) current(w http.ResponseWriter, r *http.Request) {
	stats, err := h.usecase.CurrentStatistics(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := currentResponse{At: stats.At, Total: stats.Total, Tables: make([]tableResponse, 0, len(stats.Tables))}
	for _, table := range stats.Tables {
		resp.Tables = append(resp.Tables, toTableResponse(table))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) archive(w http.ResponseWriter, r *http.Request) {
	stats, err := h.usecase.ArchivedStatistics(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := archiveResponse{
		TotalEarnings:  stats.TotalEarnings,
		TotalSessions:  stats.TotalSessions,
		TotalMinutes:   stats.TotalMinutes,
		AverageMinutes: stats.AverageMinutes,
		Tables:         make([]archiveTableResponse, 0, len(stats.Tables)),
	}
	if stats.HasMostUsed {
		resp.MostUsed = &stats.MostUsedTable
	}
	if stats.HasMostProfitable {
		resp.MostProfitable = &stats.MostProfitable
	}
	for _, row := range stats.Tables {
		resp.Tables = append(resp.Tables, archiveTableResponse{Number: row.Number, Sessions: row.Sessions, Earnings: row.Earnings})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("encode response")
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrTableNotOccupied):
		status = http.StatusConflict
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func toTableResponse(table venuedto.TableOutput) tableResponse {
	resp := tableResponse{
		Number:   table.Number,
		Occupied: table.Occupied,
		Minutes:  table.Minutes,
		Cost:     table.Cost,
		Rate:     table.Rate,
	}
	if !table.StartedAt.IsZero() {
		started := table.StartedAt
		resp.StartedAt = &started
	}
	if !table.EndedAt.IsZero() {
		ended := table.EndedAt
		resp.EndedAt = &ended
	}
	return resp
}
