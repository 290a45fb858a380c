package gateway

import (
	"testing"

	"github.com/soyeahso/arise/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestResolveAuthFromConfig(t *testing.T) {
	auth := ResolveAuth(config.GatewayAuth{
		Mode:  "token",
		Token: "my-token",
	})
	assert.Equal(t, "token", auth.Mode)
	assert.Equal(t, "my-token", auth.Token)
}

func TestResolveAuthDefaultsToPassword(t *testing.T) {
	auth := ResolveAuth(config.GatewayAuth{
		Password: "my-pass",
	})
	assert.Equal(t, "password", auth.Mode)
	assert.Equal(t, "my-pass", auth.Password)
}

func TestResolveAuthDefaultsToToken(t *testing.T) {
	auth := ResolveAuth(config.GatewayAuth{})
	assert.Equal(t, "token", auth.Mode)
}

func TestResolveAuthTokenEnvFallback(t *testing.T) {
	t.Setenv("ARISE_GATEWAY_TOKEN", "env-token")
	auth := ResolveAuth(config.GatewayAuth{Mode: "token"})
	assert.Equal(t, "env-token", auth.Token)
}

func TestResolveAuthPasswordEnvFallback(t *testing.T) {
	t.Setenv("ARISE_GATEWAY_PASSWORD", "env-pass")
	auth := ResolveAuth(config.GatewayAuth{})
	assert.Equal(t, "password", auth.Mode)
	assert.Equal(t, "env-pass", auth.Password)
}

func TestResolveAuthConfigWinsOverEnv(t *testing.T) {
	t.Setenv("ARISE_GATEWAY_TOKEN", "env-token")
	auth := ResolveAuth(config.GatewayAuth{Mode: "token", Token: "cfg-token"})
	assert.Equal(t, "cfg-token", auth.Token)
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name       string
		server     ResolvedAuth
		client     *ConnectAuth
		wantOK     bool
		wantMethod string
		wantReason string
	}{
		{
			name:       "token match",
			server:     ResolvedAuth{Mode: "token", Token: "secret"},
			client:     &ConnectAuth{Token: "secret"},
			wantOK:     true,
			wantMethod: "token",
		},
		{
			name:       "token mismatch",
			server:     ResolvedAuth{Mode: "token", Token: "secret"},
			client:     &ConnectAuth{Token: "wrong"},
			wantReason: "token_mismatch",
		},
		{
			name:       "token missing from client",
			server:     ResolvedAuth{Mode: "token", Token: "secret"},
			client:     &ConnectAuth{},
			wantReason: "token required",
		},
		{
			name:       "token not configured on server",
			server:     ResolvedAuth{Mode: "token"},
			client:     &ConnectAuth{Token: "anything"},
			wantReason: "server token not configured",
		},
		{
			name:       "password match",
			server:     ResolvedAuth{Mode: "password", Password: "pass123"},
			client:     &ConnectAuth{Password: "pass123"},
			wantOK:     true,
			wantMethod: "password",
		},
		{
			name:       "password mismatch",
			server:     ResolvedAuth{Mode: "password", Password: "pass123"},
			client:     &ConnectAuth{Password: "nope"},
			wantReason: "password_mismatch",
		},
		{
			name:       "password missing from client",
			server:     ResolvedAuth{Mode: "password", Password: "pass123"},
			client:     &ConnectAuth{},
			wantReason: "password required",
		},
		{
			name:       "no credentials",
			server:     ResolvedAuth{Mode: "token", Token: "secret"},
			client:     nil,
			wantReason: "no credentials provided",
		},
		{
			name:       "unknown mode",
			server:     ResolvedAuth{Mode: "mtls", Token: "secret"},
			client:     &ConnectAuth{Token: "secret"},
			wantReason: "unknown auth mode: mtls",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Authorize(tt.server, tt.client)
			assert.Equal(t, tt.wantOK, result.OK)
			if tt.wantOK {
				assert.Equal(t, tt.wantMethod, result.Method)
			} else {
				assert.Equal(t, tt.wantReason, result.Reason)
			}
		})
	}
}

func TestSafeEqual(t *testing.T) {
	assert.True(t, safeEqual("secret", "secret"))
	assert.True(t, safeEqual("", ""))
	assert.False(t, safeEqual("secret", "Secret"))
	assert.False(t, safeEqual("secret", "secret2"))
	assert.False(t, safeEqual("secret", ""))
	assert.False(t, safeEqual("", "secret"))
}
