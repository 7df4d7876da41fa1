package vortex_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	vortex "github.com/TeamVortexSoftware/vortex-go"
)

// signToken builds a structurally valid HS256 token. Signatures are never
// verified client-side, so the key is irrelevant.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// newTestClient wires a client against an httptest server with auto-renewal
// off, so tests control every renewal explicitly.
func newTestClient(t *testing.T, handler http.Handler, mutate ...func(*vortex.Config)) *vortex.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := vortex.Config{
		APIBaseURL:         server.URL,
		DisableAutoRenewal: true,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	client, err := vortex.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}
