package handler

import "net/http"

// handleStats handles GET /stats.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeJSON(w, r, http.StatusOK, nil)
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.store.Stats())
}
