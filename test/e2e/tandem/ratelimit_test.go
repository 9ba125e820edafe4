package tandem_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitLogin verifies the strict profile (5 req/min) on /v1/login.
func TestRateLimitLogin(t *testing.T) {
	baseURL := setupTandemContainerWithDefaultRateLimits(t)
	ctx := t.Context()
	client := tandemsdk.NewClient(baseURL)

	var lastErr error
	for i := range 6 {
		_, err := client.Login(ctx, "nobody", "wrong")
		if i < 5 {
			assertAPIError(t, err, http.StatusUnauthorized, tandemsdk.ErrorCodeInvalidCredential)
			continue
		}
		lastErr = err
	}

	assertAPIError(t, lastErr, http.StatusTooManyRequests, tandemsdk.ErrorCodeRateLimited)
}

// TestRateLimitRegister verifies registration shares the strict profile.
func TestRateLimitRegister(t *testing.T) {
	baseURL := setupTandemContainerWithDefaultRateLimits(t)
	ctx := t.Context()
	client := tandemsdk.NewClient(baseURL)

	var lastErr error
	for range 6 {
		_, lastErr = client.Register(ctx, tandemsdk.RegisterRequest{}, nil)
	}

	require.Error(t, lastErr)
	assertAPIError(t, lastErr, http.StatusTooManyRequests, tandemsdk.ErrorCodeRateLimited)
}
