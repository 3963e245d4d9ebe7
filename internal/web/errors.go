package web

// errors.go provides unified error response handling for the web layer.
//
// Every handler error is:
//   - Logged with full technical detail and the request ID (server-side)
//   - Returned to clients as a user-friendly message with an action
//     suggestion and a stable support code
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err) or respondErrorStatus for an explicit code
//  3. Error is mapped via core.MapError to get the user-facing message
//  4. Technical error is logged with the request ID for correlation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerport/ledgerport/internal/core"
	"github.com/ledgerport/ledgerport/internal/finance"
	"github.com/ledgerport/ledgerport/internal/statement"
	"github.com/ledgerport/ledgerport/internal/store"
	"github.com/ledgerport/ledgerport/internal/transcode"
)

// ErrorResponse is the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError maps err to an HTTP status and writes the user-facing
// JSON body. Use respondErrorStatus when the handler knows better.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	s.respondErrorStatus(w, r, err, statusForError(err))
}

// respondErrorStatus logs the technical error and writes the mapped
// user message with the given status code.
func (s *Server) respondErrorStatus(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusForError picks the HTTP status for the structured error kinds.
// Parse and convergence failures are well-formed requests whose content
// cannot be processed, so they map to 422 rather than 400.
func statusForError(err error) int {
	var (
		parseErr   *transcode.ParseError
		convErr    *finance.ConvergenceFailure
		missingErr *statement.MissingItemsError
	)

	switch {
	case errors.Is(err, store.ErrSheetNotFound), errors.Is(err, core.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusTooManyRequests
	case errors.Is(err, transcode.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &parseErr), errors.As(err, &convErr), errors.As(err, &missingErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, transcode.ErrBadOrigin):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// badRequest writes a 400 with a literal message, for malformed request
// shapes that never reach the core error taxonomy.
func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	slog.Warn("bad request",
		"path", r.URL.Path,
		"method", r.Method,
		"error", message,
		"request_id", middleware.GetReqID(r.Context()),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   message,
		Message: message,
		Code:    "REQ001",
	})
}
