package http

import (
	"net/http"
	"strconv"

	"github.com/mind-engage/gradecurve/internal/journal"
)

// GET /runs?limit=N
func ListRunsHandler(j journal.Journal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		runs, err := j.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list runs: "+err.Error())
			return
		}
		if runs == nil {
			runs = []journal.Run{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
	}
}

// GET /health
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Grading API is running",
	})
}
