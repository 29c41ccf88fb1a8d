package apierror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading orders: %w", HTTP(http.StatusNotFound, "Failed to fetch orders (status 404 - )"))
	assert.Equal(t, KindHTTP, KindOf(err))
	assert.Equal(t, http.StatusNotFound, StatusFor(err))
}

func TestKindOf_ContextCanceled(t *testing.T) {
	assert.True(t, IsCancelled(context.Canceled))
	assert.True(t, IsCancelled(Cancelled(context.Canceled)))
	assert.False(t, IsCancelled(errors.New("boom")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("Scan at least one item."), http.StatusUnprocessableEntity},
		{Conflict("checkout already in progress"), http.StatusConflict},
		{Unauthenticated("login required"), http.StatusUnauthorized},
		{HTTP(http.StatusForbidden, "x"), http.StatusForbidden},
		{HTTP(http.StatusInternalServerError, "x"), http.StatusBadGateway},
		{Transport("backend unreachable", errors.New("dial")), http.StatusBadGateway},
		{Cancelled(nil), StatusClientClosed},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestTransport_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Transport("backend unreachable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "transport", KindOf(err).String())
}
