package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"traveleo/internal/core"
	applog "traveleo/internal/log"
)

// envelope is the JSON body of every API response. success is set by the
// writers below.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = true
	writeJSON(w, status, body)
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, envelope{"success": success, "message": message})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind core.Kind) int {
	switch kind {
	case core.KindValidation, core.KindConflict:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func errorTypeFor(kind core.Kind) string {
	switch kind {
	case core.KindValidation:
		return applog.ErrorTypeValidation
	case core.KindNotFound:
		return applog.ErrorTypeNotFound
	case core.KindConflict:
		return applog.ErrorTypeConflict
	case core.KindAuth:
		return applog.ErrorTypeAuth
	default:
		return applog.ErrorTypeInternal
	}
}

// writeError renders err. Classified errors carry a client message; anything
// else is a 500 with the error text under "error".
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := core.KindOf(err)
	status := statusFor(kind)
	logger := applog.FromContext(r.Context())

	if kind == core.KindInternal {
		logger.ErrorContext(r.Context(), "Request failed",
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err,
			applog.FieldErrorType, errorTypeFor(kind))
		writeJSON(w, status, envelope{"success": false, "error": err.Error()})
		return
	}

	logger.DebugContext(r.Context(), "Request rejected",
		applog.FieldPath, r.URL.Path,
		applog.FieldError, err,
		applog.FieldErrorType, errorTypeFor(kind))
	writeMessage(w, status, false, core.MessageOf(err))
}

var errInvalidID = errors.New("invalid id in path")

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Validation(errInvalidID)
	}
	return id, nil
}
