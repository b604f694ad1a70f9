package api

import (
	"net/http"
	"time"
)

// StatsProvider reports service state for GET /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the provider's statistics plus the handler's uptime.
type StatsHandler struct {
	provider StatsProvider
	started  time.Time
}

// NewStatsHandler creates a stats handler; uptime counts from this call.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, started: time.Now()}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	body := map[string]interface{}{}
	if h.provider != nil {
		for k, v := range h.provider.GetStats() {
			body[k] = v
		}
	}
	body["uptime"] = time.Since(h.started).Round(time.Second).String()
	writeJSON(w, http.StatusOK, body)
}
