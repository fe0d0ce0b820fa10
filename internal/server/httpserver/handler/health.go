package handler

import (
	"encoding/json"
	"net/http"
)

// handleHealth handles GET /healthz.
//
// With ?check=consistency it also compares the table and trie key sets and
// answers 503 when they differ. In relaxed mode concurrent writes can make
// the comparison fail transiently.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.store != nil && r.URL.Query().Get("check") == "consistency" {
		if err := h.store.CheckConsistency(); err != nil {
			h.logger.Warn("consistency check failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(NewErrorResponse(getRequestID(r, w), err.Error()))
			return
		}
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"health": "healthy"})
}
