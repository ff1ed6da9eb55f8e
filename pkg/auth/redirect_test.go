package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRedirect(t *testing.T) {
	t.Parallel()

	const base = "https://app.probelab.io"
	callback := base + "/auth/google/callback"

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "deactivation marker wins over everything",
			raw:  callback + "?error=access_denied&account_deactivated=1&callbackUrl=%2Fdashboard",
			want: base + "/account-deactivated",
		},
		{
			name: "sign-out marker goes to root",
			raw:  base + "/some/path?signout=1",
			want: base + "/",
		},
		{
			name: "callback error with staged registration",
			raw:  callback + "?error=access_denied&autoRegister=professional",
			want: base + "/register?tier=professional&error=access_denied",
		},
		{
			name: "callback error with tier fallback",
			raw:  callback + "?tier=professional&error=server_error",
			want: base + "/register?tier=professional&error=server_error",
		},
		{
			name: "callback error with unknown staged plan defaults",
			raw:  callback + "?error=access_denied&autoRegister=yes",
			want: base + "/register?tier=developer&error=access_denied",
		},
		{
			name: "callback error without registration marker falls to login",
			raw:  callback + "?error=access_denied",
			want: base + "/login",
		},
		{
			name: "escaped relative callbackUrl",
			raw:  callback + "?state=abc&callbackUrl=%2Fdashboard",
			want: base + "/dashboard",
		},
		{
			name: "same-origin absolute callbackUrl",
			raw:  callback + "?callbackUrl=" + "https%3A%2F%2Fapp.probelab.io%2Fsettings",
			want: base + "/settings",
		},
		{
			name: "cross-origin redirect_uri is rejected",
			raw:  callback + "?redirect_uri=https%3A%2F%2Fevil.example",
			want: base + "/login",
		},
		{
			name: "protocol-relative target is rejected",
			raw:  callback + "?callbackUrl=%2F%2Fevil.example",
			want: base + "/login",
		},
		{
			name: "bare callback has no target",
			raw:  callback + "?state=abc&code=4%2F0Af",
			want: base + "/login",
		},
		{
			name: "same-origin non-callback passes through",
			raw:  base + "/dashboard?tab=probes",
			want: base + "/dashboard?tab=probes",
		},
		{
			name: "cross-origin non-callback falls to login",
			raw:  "https://evil.example/dashboard",
			want: base + "/login",
		},
		{
			name: "empty input falls to login",
			raw:  "",
			want: base + "/login",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ResolveRedirect(tt.raw, base))
		})
	}
}

func TestResolveRedirect_TrailingSlashBase(t *testing.T) {
	t.Parallel()

	got := ResolveRedirect("https://app.probelab.io/auth/google/callback?callbackUrl=%2Fdashboard", "https://app.probelab.io/")
	assert.Equal(t, "https://app.probelab.io/dashboard", got)
}
