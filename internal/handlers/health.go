package handlers

import "net/http"

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Health handles GET / and GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusOK, HealthResponse{
		Message: "Calculator API is running",
		Status:  "healthy",
	})
}
