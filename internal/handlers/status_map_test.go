package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"

	"terraUrbBack/internal/models"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.Validationf("title is required"), http.StatusBadRequest},
		{"invalid credentials", models.ErrInvalidCredentials, http.StatusUnauthorized},
		{"permission denied", models.ErrPermissionDenied, http.StatusForbidden},
		{"complaint not found", models.ErrComplaintNotFound, http.StatusNotFound},
		{"comment not found", models.ErrCommentNotFound, http.StatusNotFound},
		{"tag not found", models.ErrTagNotFound, http.StatusNotFound},
		{"report not found", models.ErrReportNotFound, http.StatusNotFound},
		{"duplicate report", models.ErrDuplicateReport, http.StatusConflict},
		{"duplicate tag", models.ErrDuplicateTagName, http.StatusConflict},
		{"duplicate email", models.ErrDuplicateEmail, http.StatusConflict},
		{"report already resolved", models.ErrReportResolved, http.StatusConflict},
		{"bad code", models.ErrCodeInvalid, http.StatusBadRequest},
		{"foreign key", &mysql.MySQLError{Number: 1452}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusForWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("resolving report: %w", models.ErrReportNotFound)
	if got := statusForError(wrapped); got != http.StatusNotFound {
		t.Errorf("wrapped = %d, want %d", got, http.StatusNotFound)
	}
}
