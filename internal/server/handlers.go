package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/db"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/server/middleware"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// exclusionRequest is the body of POST /api/exclusions. An empty search_key
// makes the exclusion global.
type exclusionRequest struct {
	SearchKey   string `json:"search_key,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	URL         string `json:"url,omitempty"`
	Note        string `json:"note,omitempty"`
}

// handleSearch runs one obituary search for the authenticated caller.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var q types.ObitQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.searcher.Run(r.Context(), q)
	if err != nil {
		// Input validation is the only synchronous failure; backend and
		// store problems degrade inside the run.
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.recordSearch(r, q, result)
	s.jsonResponse(w, http.StatusOK, result)
}

// recordSearch appends the run to the caller's history. Failures are logged,
// never surfaced: history is bookkeeping, not part of the search.
func (s *Server) recordSearch(r *http.Request, q types.ObitQuery, result *types.SearchResult) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		userID = uuid.Nil
	}

	first := q.FirstName
	if first == "" {
		first = q.Nickname
	}

	rec := db.SearchRecord{
		UserID:      userID,
		SearchKey:   result.SearchKey,
		LastName:    q.LastName,
		FirstName:   first,
		City:        q.City,
		State:       q.State,
		AgeYears:    q.AgeApprox,
		ResultCount: len(result.Results),
	}
	if _, err := s.db.RecordSearch(r.Context(), rec); err != nil {
		log.Printf("Failed to record search %s: %v", result.SearchKey, err)
	}
}

// handleListSearches returns recent search history for the authenticated caller.
func (s *Server) handleListSearches(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := parseQueryInt(r, "limit", 50, 200)

	records, err := s.db.ListSearches(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"searches": records,
		"count":    len(records),
	})
}

// handleAddExclusion stores a suppression for future searches.
func (s *Server) handleAddExclusion(w http.ResponseWriter, r *http.Request) {
	var req exclusionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Fingerprint = strings.TrimSpace(req.Fingerprint)
	req.URL = strings.TrimSpace(req.URL)
	if req.Fingerprint == "" && req.URL == "" {
		s.errorResponse(w, http.StatusBadRequest, "Exclusion requires a fingerprint or a url")
		return
	}

	userID, err := middleware.GetUserID(r)
	if err != nil {
		userID = uuid.Nil
	}

	id, err := s.db.AddExclusion(r.Context(), db.AddExclusionParams{
		SearchKey:   req.SearchKey,
		Fingerprint: req.Fingerprint,
		URL:         req.URL,
		Note:        req.Note,
		CreatedBy:   userID,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleListExclusions lists exclusion rows. With a search_key parameter the
// listing is the rows that apply to that search (global plus scoped);
// without one, every row.
func (s *Server) handleListExclusions(w http.ResponseWriter, r *http.Request) {
	searchKey := r.URL.Query().Get("search_key")

	rows, err := s.db.ListExclusions(r.Context(), searchKey)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"exclusions": rows,
		"count":      len(rows),
	})
}

// handleDeleteExclusion removes one exclusion row by ID.
func (s *Server) handleDeleteExclusion(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "Exclusion ID is required")
		return
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid exclusion ID format")
		return
	}

	if err := s.db.DeleteExclusion(r.Context(), id); err != nil {
		if err.Error() == "exclusion not found: "+id.String() {
			s.errorResponse(w, http.StatusNotFound, "Exclusion not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
