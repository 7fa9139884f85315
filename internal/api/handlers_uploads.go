package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Upload categories and the content types each one accepts. Procedure
// documents and review templates land in different folders so the
// pipeline can find them independently.
const (
	CategorySOP      = "sop"
	CategoryTemplate = "template"
)

var allowedContentTypes = map[string]map[string]bool{
	CategorySOP: {
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	},
	CategoryTemplate: {
		"application/vnd.ms-excel": true,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	},
}

type presignUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Category    string `json:"category"`
}

// handlePresignUpload issues a time-limited upload URL for a procedure
// document or a review template.
func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	var req presignUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Filename == "" {
		jsonError(w, "filename is required", http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		req.Category = CategorySOP
	}

	allowed, ok := allowedContentTypes[req.Category]
	if !ok {
		jsonError(w, fmt.Sprintf("unknown category %q (want %q or %q)", req.Category, CategorySOP, CategoryTemplate), http.StatusBadRequest)
		return
	}
	if !allowed[req.ContentType] {
		jsonError(w, fmt.Sprintf("content type %q not allowed for category %q", req.ContentType, req.Category), http.StatusBadRequest)
		return
	}

	filename := sanitizeFilename(req.Filename)

	var bucket, key string
	switch req.Category {
	case CategoryTemplate:
		bucket = s.cfg.ProcessingBucket
		key = s.cfg.TemplatePrefix + filename
	default:
		bucket = s.cfg.IncomingBucket
		key = s.cfg.SOPPrefix + filename
	}

	url, err := s.orchestrator.StoreClient().PresignPut(r.Context(), bucket, key, req.ContentType, s.cfg.PresignTTL)
	if err != nil {
		jsonError(w, "presign failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"upload_url":    url,
		"bucket":        bucket,
		"key":           key,
		"file_category": req.Category,
		"expires_in":    int64(s.cfg.PresignTTL.Seconds()),
	})
}
