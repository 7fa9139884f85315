package api

import (
	"encoding/json"
	"net/http"

	"github.com/procdocs/sopstruct/internal/template"
)

// handleLatestTemplate returns the control attributes parsed from the
// most recently uploaded review template.
func (s *Server) handleLatestTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.orchestrator.StoreClient()

	latest, err := st.LatestObject(ctx, s.cfg.ProcessingBucket, s.cfg.TemplatePrefix)
	if err != nil {
		jsonError(w, "no template available: "+err.Error(), http.StatusNotFound)
		return
	}

	data, err := st.GetObject(ctx, s.cfg.ProcessingBucket, latest.Key)
	if err != nil {
		jsonError(w, "failed to fetch template: "+err.Error(), http.StatusBadGateway)
		return
	}
	if data == nil {
		jsonError(w, "template object missing", http.StatusNotFound)
		return
	}

	entries, err := template.Parse(data)
	if err != nil {
		jsonError(w, "failed to parse template: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"key":           latest.Key,
		"last_modified": latest.LastModified,
		"attributes":    template.ToControlAttributes(entries),
	})
}
