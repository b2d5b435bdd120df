package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad input", nil), http.StatusBadRequest},
		{Validationf("bad %s", "input"), http.StatusBadRequest},
		{NotFound("patient", nil), http.StatusNotFound},
		{Conflict("bed taken", nil), http.StatusConflict},
		{InvalidState("already discharged", nil), http.StatusUnprocessableEntity},
		{InvalidTransition("pending", "delivered"), http.StatusUnprocessableEntity},
		{Forbidden("not yours", nil), http.StatusForbidden},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.StatusCode(), tc.err.Message)
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "patient not found", NotFound("patient", nil).Error())
	assert.Equal(t, "cannot transition from pending to delivered",
		InvalidTransition("pending", "delivered").Error())

	wrapped := Conflict("bed taken", errors.New("pq: duplicate key"))
	assert.Equal(t, "bed taken: pq: duplicate key", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)

	assert.True(t, errors.Is(err, cause))

	var app *AppError
	require.True(t, errors.As(fmt.Errorf("handling request: %w", err), &app))
	assert.Equal(t, KindInternal, app.Kind)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("ward", nil)))
	assert.True(t, IsConflict(Conflict("slot already booked", nil)))
	assert.True(t, IsValidation(Validationf("qty must be at least 1")))
	assert.True(t, IsInvalidState(InvalidState("booking already cancelled", nil)))
	assert.True(t, IsInvalidTransition(InvalidTransition("open", "open")))
	assert.True(t, IsForbidden(Forbidden("addressed to another user", nil)))

	assert.False(t, IsNotFound(Conflict("x", nil)))
	assert.False(t, IsConflict(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "invalid_state", KindInvalidState.String())
	assert.Equal(t, "invalid_transition", KindInvalidTransition.String())
	assert.Equal(t, "forbidden", KindForbidden.String())
	assert.Equal(t, "unauthorized", KindUnauthorized.String())
	assert.Equal(t, "internal", KindInternal.String())
}
