package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", New(500, "x", errors.New("boom")).Error())
	assert.Equal(t, "missing_key", New(500, "missing_key", nil).Error())
	assert.Equal(t, "api error (418)", New(418, "", nil).Error())
	assert.Equal(t, "api error", (&Error{}).Error())

	var e *Error
	assert.Equal(t, "", e.Error())
}

func TestConstructorsSetStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("v", nil).Status)
	assert.Equal(t, http.StatusPaymentRequired, Payment("p", nil).Status)
	assert.Equal(t, http.StatusInternalServerError, Config("c", nil).Status)
	assert.Equal(t, http.StatusInternalServerError, Upstream("u", nil).Status)
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	inner := Payment("insufficient_allowance", nil)
	wrapped := fmt.Errorf("issue voucher: %w", inner)

	got := As(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "insufficient_allowance", got.Code)
	assert.Equal(t, http.StatusPaymentRequired, StatusOf(wrapped))

	plain := As(errors.New("disk full"))
	assert.Equal(t, "internal_error", plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)

	assert.Nil(t, As(nil))
	assert.Equal(t, http.StatusOK, StatusOf(nil))
}

func TestWithCopiesDetails(t *testing.T) {
	base := Payment("insufficient_allowance", nil)
	a := base.With("required", "1000000")
	b := a.With("current", "0")

	assert.Nil(t, base.Details)
	assert.Len(t, a.Details, 1)
	assert.Equal(t, map[string]any{"required": "1000000", "current": "0"}, b.Details)
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	assert.True(t, errors.Is(Config("c", sentinel), sentinel))
}
