package handlers

import "net/http"

// Health is a liveness probe for the frontend and deploy checks.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
