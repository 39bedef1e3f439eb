package handler

import "net/http"

// HandleRoot responds with a service banner and endpoint map.
// GET /
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Tidylist Todo API",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": map[string]string{
			"health": "/api/health",
			"auth":   "/api/auth",
			"todos":  "/api/todos",
		},
	})
}
