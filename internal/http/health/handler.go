package health

import (
	"encoding/json"
	"net/http"
)

// StatusHealthy is the only status reported.
const StatusHealthy = "healthy"

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
}

// Handler answers liveness probes. It is mounted on the router directly, outside the huma API.
func Handler(w http.ResponseWriter, _ *http.Request) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(Response{Status: StatusHealthy})
}
