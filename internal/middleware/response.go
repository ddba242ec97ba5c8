package middleware

import (
	"net/http"

	"github.com/armonia-saas/access-service-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}
