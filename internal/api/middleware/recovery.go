package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/lettergame/internal/api/apierr"
	"github.com/mcoot/lettergame/internal/middleware"
)

// Recovery is panic recovery for the JSON API
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
