package apierr_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"not found", fmt.Errorf("team: %w", apierr.ErrNotFound), http.StatusNotFound, "not_found"},
		{"validation", apierr.Invalid("name", "required"), http.StatusBadRequest, "validation_failed"},
		{"reference", apierr.MissingReference("team", "abc"), http.StatusBadRequest, "reference_not_found"},
		{"identifier", fmt.Errorf("%w: x", apierr.ErrInvalidIdentifier), http.StatusBadRequest, "invalid_identifier"},
		{"unavailable", apierr.Classify(context.DeadlineExceeded), http.StatusServiceUnavailable, "unavailable"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "server_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apierr.Status(tt.err))
			assert.Equal(t, tt.code, apierr.Code(tt.err))
		})
	}
}

func TestClassify_LeavesDomainErrors(t *testing.T) {
	err := apierr.Classify(apierr.ErrNotFound)
	assert.ErrorIs(t, err, apierr.ErrNotFound)
	assert.NotErrorIs(t, err, apierr.ErrUnavailable)
	assert.NoError(t, apierr.Classify(nil))
}

func TestValidationError_FirstMessageWins(t *testing.T) {
	ve := &apierr.ValidationError{}
	assert.True(t, ve.Empty())
	assert.NoError(t, ve.OrNil())

	ve.Add("email", "required")
	ve.Add("email", "must be unique")
	ve.Add("name", "required")

	assert.Equal(t, "required", ve.Fields["email"])
	assert.EqualError(t, ve, "validation failed: email: required; name: required")
	assert.Error(t, ve.OrNil())
}

func TestReferenceError_Unwraps(t *testing.T) {
	err := fmt.Errorf("create user: %w", apierr.MissingReference("team", "507f1f77bcf86cd799439011"))
	var re *apierr.ReferenceError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, "team", re.Field)
	assert.ErrorIs(t, err, apierr.ErrReferenceNotFound)
}
