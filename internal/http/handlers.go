package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vibe/internal/core"
	"vibe/internal/ingest"
	"vibe/internal/insights"
	"vibe/internal/log"
)

const maxImportBytes = 10 << 20 // 10 MiB upload cap

type transactionJSON struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
}

func toTransactionJSON(ledger core.Ledger) []transactionJSON {
	out := make([]transactionJSON, 0, len(ledger))
	for _, tx := range ledger {
		out = append(out, transactionJSON{
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			Amount:      tx.Amount.Format(),
			AmountCents: tx.Amount.Cents,
			Category:    tx.Category,
		})
	}
	return out
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Query        string            `json:"query"`
	Summary      string            `json:"summary"`
	Matches      int               `json:"matches"`
	Transactions []transactionJSON `json:"transactions"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	// Identical questions hit the cache until an import invalidates it.
	key := strings.ToLower(strings.TrimSpace(req.Query))
	if answer, ok := s.queryCache.Get(key); ok {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Query cache hit", "query", req.Query)
		writeJSON(w, http.StatusOK, queryResponse{
			Query:        req.Query,
			Summary:      answer.Summary,
			Matches:      len(answer.Results),
			Transactions: toTransactionJSON(answer.Results),
		})
		return
	}

	results, summary, err := s.svc.Ask(r.Context(), req.Query)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "query failed", err)
		return
	}

	s.queryCache.Set(key, queryAnswer{Summary: summary, Results: results})

	writeJSON(w, http.StatusOK, queryResponse{
		Query:        req.Query,
		Summary:      summary,
		Matches:      len(results),
		Transactions: toTransactionJSON(results),
	})
}

type importResponse struct {
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
	Imported int    `json:"imported"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "missing 'file' form field", err)
		return
	}
	defer file.Close()

	table, err := ingest.Load(file, header.Filename)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
		return
	}

	ledger, err := ingest.Clean(table)
	if err != nil {
		var missing *ingest.MissingColumnError
		if errors.As(err, &missing) {
			writeError(w, r, http.StatusUnprocessableEntity, missing.Error(), err)
			return
		}
		writeError(w, r, http.StatusUnprocessableEntity, "could not clean ledger file", err)
		return
	}

	imported, err := s.svc.Import(r.Context(), ledger)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "import failed", err)
		return
	}

	// Stored ledger changed; cached answers are stale now.
	s.queryCache.Clear()

	log.FromContext(r.Context()).InfoContext(r.Context(), "Ledger file imported",
		log.FieldFilename, header.Filename,
		"rows", len(table.Rows),
		"imported", imported)

	writeJSON(w, http.StatusCreated, importResponse{
		Filename: header.Filename,
		Rows:     len(table.Rows),
		Imported: imported,
	})
}

type categoryAmountJSON struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

type overviewResponse struct {
	Year       int                  `json:"year"`
	Month      int                  `json:"month"`
	TotalCents int64                `json:"total_cents"`
	Total      string               `json:"total"`
	Count      int                  `json:"count"`
	ByCategory []categoryAmountJSON `json:"by_category"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := intQuery(r, "year", now.Year())
	month := intQuery(r, "month", int(now.Month()))
	if month < 1 || month > 12 {
		writeError(w, r, http.StatusBadRequest, "month must be between 1 and 12", nil)
		return
	}

	overview, err := s.svc.Overview(r.Context(), year, month)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "overview failed", err)
		return
	}

	resp := overviewResponse{
		Year:       overview.Year,
		Month:      overview.Month,
		TotalCents: overview.Total.Cents,
		Total:      overview.Total.Format(),
		Count:      overview.Count,
		ByCategory: make([]categoryAmountJSON, 0, len(overview.ByCategory)),
	}
	for _, ca := range overview.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryAmountJSON{
			Name:        ca.Name,
			AmountCents: ca.Amount.Cents,
			Amount:      ca.Amount.Format(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type anomalyJSON struct {
	transactionJSON
	Reason string `json:"reason"`
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	anomalies, err := s.svc.Anomalies(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "anomaly detection failed", err)
		return
	}

	out := make([]anomalyJSON, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, anomalyJSON{
			transactionJSON: toTransactionJSON(core.Ledger{a.Transaction})[0],
			Reason:          a.Reason,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"anomalies": out})
}

type forecastPointJSON struct {
	Date          string `json:"date"`
	ForecastCents int64  `json:"forecast_cents"`
	LowerCents    int64  `json:"lower_cents"`
	UpperCents    int64  `json:"upper_cents"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 7)
	if days < 1 || days > 90 {
		writeError(w, r, http.StatusBadRequest, "days must be between 1 and 90", nil)
		return
	}

	points, err := s.svc.Forecast(r.Context(), days)
	if errors.Is(err, insights.ErrNotEnoughData) {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "forecast failed", err)
		return
	}

	out := make([]forecastPointJSON, 0, len(points))
	for _, p := range points {
		out = append(out, forecastPointJSON{
			Date:          p.Date.Format("2006-01-02"),
			ForecastCents: p.Forecast.Cents,
			LowerCents:    p.Lower.Cents,
			UpperCents:    p.Upper.Cents,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"days": days, "points": out})
}
