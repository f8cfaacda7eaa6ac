package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/prepforge/prepforge/internal/core"
	"github.com/prepforge/prepforge/internal/logging"
)

// sessionID extracts the session identifier from the URL.
func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// decodeBody decodes a JSON request body into v. An empty body is allowed
// and leaves v at its zero value.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// handleCreateSession ingests an uploaded CSV file and opens a session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondBadRequest(w, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, "no file provided")
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" && header != nil {
		name = strings.TrimSuffix(header.Filename, ".csv")
	}

	info, err := s.service.CreateSession(file, name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("session created",
		"session_id", info.SessionID,
		"rows", info.Stats.CurrentRows,
		"columns", info.Stats.CurrentColumns,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(info)
}

// handleCloseSession destroys a session explicitly.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.CloseSession(sessionID(r)); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "closed"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := s.service.Columns(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, cols)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// handleEDA returns the dataset profile for frontend visualization.
func (s *Server) handleEDA(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.EDA(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// handleExport streams the current version as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="processed.csv"`)
	if err := s.service.Export(id, w); err != nil {
		// Headers may already be sent; log and bail.
		logging.FromContext(r.Context()).Error("export failed",
			"session_id", id,
			"error", err,
		)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.service.History(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"versions": history,
		"count":    len(history),
	})
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 0)
	entries, err := s.service.AuditTrail(sessionID(r), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleTransforms(w http.ResponseWriter, r *http.Request) {
	transforms, err := s.service.Transforms(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"transforms": transforms,
		"count":      len(transforms),
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Undo(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Redo(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Reset(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleAnalyzeMissing(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.service.AnalyzeMissing(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleApplyMissing(w http.ResponseWriter, r *http.Request) {
	var p core.MissingParams
	if err := decodeBody(r, &p); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	result, err := s.service.ApplyMissing(sessionID(r), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleAnalyzeDuplicates(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.service.AnalyzeDuplicates(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleApplyDuplicates(w http.ResponseWriter, r *http.Request) {
	var p core.DuplicateParams
	if err := decodeBody(r, &p); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	result, err := s.service.ApplyDuplicates(sessionID(r), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleDetectConstant(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.service.DetectConstantColumns(sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleRemoveConstant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Columns []string `json:"columns"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	result, err := s.service.RemoveConstantColumns(sessionID(r), req.Columns)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleApplyEncoding(w http.ResponseWriter, r *http.Request) {
	var p core.EncodingParams
	if err := decodeBody(r, &p); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	result, err := s.service.ApplyEncoding(sessionID(r), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleApplyScaling(w http.ResponseWriter, r *http.Request) {
	var p core.ScalingParams
	if err := decodeBody(r, &p); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	result, err := s.service.ApplyScaling(sessionID(r), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// handleAnalyzeOutliers reports outliers without modifying history.
// Detection parameters come from query values so the endpoint stays a GET.
func (s *Server) handleAnalyzeOutliers(w http.ResponseWriter, r *http.Request) {
	p := core.OutlierParams{
		Method: r.URL.Query().Get("method"),
	}
	if p.Method == "" {
		p.Method = core.OutlierIQR
	}
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondBadRequest(w, "invalid threshold")
			return
		}
		p.Threshold = f
	}
	if raw := r.URL.Query().Get("columns"); raw != "" {
		p.Columns = strings.Split(raw, ",")
	}

	analysis, err := s.service.AnalyzeOutliers(sessionID(r), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleApplyOutliers(w http.ResponseWriter, r *http.Request) {
	var p core.OutlierParams
	if err := decodeBody(r, &p); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	result, err := s.service.ApplyOutliers(sessionID(r), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		respondBadRequest(w, "missing target column")
		return
	}
	dist, err := s.service.ClassDistribution(sessionID(r), target)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, dist)
}

func (s *Server) handleApplySampling(w http.ResponseWriter, r *http.Request) {
	var p core.SamplingParams
	if err := decodeBody(r, &p); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	result, err := s.service.ApplySampling(sessionID(r), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, result)
}
