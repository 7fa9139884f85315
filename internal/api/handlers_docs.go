package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/procdocs/sopstruct/internal/pipeline"
)

// handleGetDocument returns the structured document model built for a
// processed document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	key := pipeline.ProcessedKey(s.cfg.ProcessedPrefix, docID)
	s.serveArtifact(w, r, key, "application/json")
}

// handleGetPreview returns the HTML rendering of the document model.
func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	key := pipeline.PreviewKey(s.cfg.ProcessedPrefix, docID)
	s.serveArtifact(w, r, key, "text/html; charset=utf-8")
}

// handleGetAnalysis returns the control analysis results for a
// processed document.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	key := pipeline.AnalysisKey(s.cfg.ProcessedPrefix, docID)
	s.serveArtifact(w, r, key, "application/json")
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, key, contentType string) {
	data, err := s.orchestrator.StoreClient().GetObject(r.Context(), s.cfg.ProcessingBucket, key)
	if err != nil {
		jsonError(w, "failed to fetch artifact: "+err.Error(), http.StatusBadGateway)
		return
	}
	if data == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteDocument removes every artifact produced for a document:
// the structured model, the analysis JSON, the HTML preview, and the
// exported workbook. The workbook key is recovered from the analysis
// document, which records the source file name.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	ctx := r.Context()
	st := s.orchestrator.StoreClient()

	deleted := 0
	var errs []string

	analysisKey := pipeline.AnalysisKey(s.cfg.ProcessedPrefix, docID)
	if data, err := st.GetObject(ctx, s.cfg.ProcessingBucket, analysisKey); err == nil && data != nil {
		var doc pipeline.AnalysisDocument
		if json.Unmarshal(data, &doc) == nil && doc.SourceSOPFile != "" {
			workbookKey := pipeline.WorkbookKey(s.cfg.WorkbookPrefix, doc.SourceSOPFile)
			if err := st.DeleteObject(ctx, s.cfg.OutputBucket, workbookKey); err != nil {
				errs = append(errs, err.Error())
			} else {
				deleted++
			}
		}
	}

	for _, key := range []string{
		pipeline.ProcessedKey(s.cfg.ProcessedPrefix, docID),
		analysisKey,
		pipeline.PreviewKey(s.cfg.ProcessedPrefix, docID),
	} {
		if err := st.DeleteObject(ctx, s.cfg.ProcessingBucket, key); err != nil {
			errs = append(errs, err.Error())
		} else {
			deleted++
		}
	}

	if errs == nil {
		errs = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":            docID,
		"artifacts_deleted": deleted,
		"errors":            errs,
	})
}
