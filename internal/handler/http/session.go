package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

// requireSession writes 401 and reports false when the request carries no
// authenticated session.
func requireSession(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return auth.Session{}, false
	}
	return session, true
}
