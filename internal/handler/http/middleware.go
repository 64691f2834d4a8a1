package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/counterdesk/internal/workspace"
	apperrors "github.com/utafrali/counterdesk/pkg/errors"
	"github.com/utafrali/counterdesk/pkg/httputil"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	workspaceKey contextKey = "workspace"
	targetKey    contextKey = "target"
)

// WorkspaceFromURL resolves the {sid} route parameter to a live workspace and
// stores it in the request context. Unknown or expired sessions get a 404.
func WorkspaceFromURL(manager *workspace.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := httputil.ParseUUID(w, chi.URLParam(r, "sid"))
			if !ok {
				return
			}
			ws, err := manager.Get(sid.String())
			if err != nil {
				httputil.WriteError(w, r, err, nil)
				return
			}
			ctx := context.WithValue(r.Context(), workspaceKey, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TargetFromURL validates the {target} route parameter.
func TargetFromURL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "target")
		target, ok := workspace.ParseTarget(raw)
		if !ok {
			httputil.WriteError(w, r, apperrors.NotFound("draft", raw), nil)
			return
		}
		ctx := context.WithValue(r.Context(), targetKey, target)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func workspaceFromContext(ctx context.Context) *workspace.Workspace {
	ws, _ := ctx.Value(workspaceKey).(*workspace.Workspace)
	return ws
}

func targetFromContext(ctx context.Context) workspace.Target {
	t, _ := ctx.Value(targetKey).(workspace.Target)
	return t
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
