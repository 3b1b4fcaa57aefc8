package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TokenVerifier resolves a bearer credential to the subject uid it was
// issued for. The identity service owning tokens is an external collaborator;
// nothing else about it is assumed here.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// HTTPVerifier verifies tokens against the identity service's verify endpoint.
type HTTPVerifier struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPVerifier constructs the verifier client.
func NewHTTPVerifier(baseURL string) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Valid bool   `json:"valid"`
	UID   string `json:"uid"`
}

// VerifyToken posts the credential to the identity service and returns the
// verified subject uid.
func (v *HTTPVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	body, err := json.Marshal(verifyTokenRequest{Token: token})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/v1/tokens/verify", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verify token: unexpected status %d", resp.StatusCode)
	}

	var out verifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if !out.Valid || out.UID == "" {
		return "", errors.New("invalid token")
	}
	return out.UID, nil
}

var _ TokenVerifier = (*HTTPVerifier)(nil)
