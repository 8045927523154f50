package http

import (
	"errors"
	"net/http"

	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/pkg/httpx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

var (
	// errUnauthenticated covers every credential failure: missing, malformed,
	// bad signature, expired, or a credential whose user no longer exists.
	// Callers cannot tell these apart.
	errUnauthenticated = errors.New("unauthenticated")

	// errForbidden is the authorization gate failure. Both the admin-only and
	// the member-allowed gate reject with the same status.
	errForbidden = errors.New("forbidden")

	// errMalformedID reports a structurally invalid identifier in the path.
	errMalformedID = errors.New("malformed identifier")

	// errBadTarget reports that the target company could not be resolved from
	// the supplied id or body. Returned before any authorization check, so a
	// probe with a well-formed unknown id learns nothing beyond "no target".
	errBadTarget = errors.New("target could not be resolved")
)

// writeError maps the pipeline error taxonomy onto HTTP statuses in one
// place. Anything unrecognized is an unexpected error: logged, answered with
// a 500, and the process keeps serving.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, errUnauthenticated):
		httpx.WriteBearerError(w, "invalid or missing credential")

	case errors.Is(err, errForbidden):
		httpx.WriteJSON(w, http.StatusUnauthorized, errorBody("forbidden"))

	case errors.Is(err, errMalformedID):
		httpx.WriteJSON(w, http.StatusNotFound, errorBody("not found"))

	case errors.Is(err, errBadTarget),
		errors.Is(err, service.ErrUnknownEmail),
		errors.Is(err, service.ErrTokenNotFound),
		errors.Is(err, service.ErrTokenAlreadyFired),
		errors.Is(err, store.ErrNotFound):
		httpx.WriteJSON(w, http.StatusBadRequest, errorBody("bad request"))

	case errors.Is(err, service.ErrValidation):
		// Historical status for validation failures; existing clients
		// depend on it.
		httpx.WriteJSON(w, http.StatusForbidden, errorBody("validation failed"))

	default:
		log.Error("unexpected error", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
