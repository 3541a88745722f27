package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-sql-driver/mysql"

	"terraUrbBack/internal/models"
)

// statusForError maps service errors onto HTTP status codes. Anything not
// recognized is a server fault.
func statusForError(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, models.ErrComplaintNotFound),
		errors.Is(err, models.ErrCommentNotFound),
		errors.Is(err, models.ErrTagNotFound),
		errors.Is(err, models.ErrReportNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateReport),
		errors.Is(err, models.ErrDuplicateTagName),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrDuplicateNickname),
		errors.Is(err, models.ErrReportResolved):
		return http.StatusConflict
	case errors.Is(err, models.ErrCodeInvalid):
		return http.StatusBadRequest
	case isForeignKeyConstraintError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// isForeignKeyConstraintError checks if the error corresponds to a MySQL/MariaDB
// foreign key constraint failure. This helps translate DB failures into clear
// client-facing validation responses instead of generic 500 errors.
func isForeignKeyConstraintError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1452
}

// writeError renders err as a JSON error body with the mapped status. Server
// faults get a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// actorFromContext pulls the authenticated identity placed there by the JWT
// middleware.
func actorFromContext(r *http.Request) (models.Actor, bool) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok || userID == 0 {
		return models.Actor{}, false
	}
	role, _ := r.Context().Value("role").(string)
	if role == "" {
		role = models.RoleUser
	}
	return models.Actor{ID: userID, Role: role}, true
}
