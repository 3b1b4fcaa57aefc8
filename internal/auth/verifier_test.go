package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyTokenSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/tokens/verify", r.URL.Path)

		var req verifyTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "tok-u1", req.Token)

		json.NewEncoder(w).Encode(verifyTokenResponse{Valid: true, UID: "u1"})
	}))
	defer server.Close()

	verifier := NewHTTPVerifier(server.URL)
	uid, err := verifier.VerifyToken(context.Background(), "tok-u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestVerifyTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(verifyTokenResponse{Valid: false})
	}))
	defer server.Close()

	verifier := NewHTTPVerifier(server.URL)
	_, err := verifier.VerifyToken(context.Background(), "bad")
	require.Error(t, err)
}

func TestVerifyTokenServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	verifier := NewHTTPVerifier(server.URL)
	_, err := verifier.VerifyToken(context.Background(), "tok-u1")
	require.Error(t, err)
}
