// Package e2e drives the registry HTTP API end to end. Point it at a
// running server with SPONSORREG_E2E_URL and run the godog suite.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestContext carries shared state across scenario steps: the HTTP client,
// the last response, and the principal the next request authenticates as.
type TestContext struct {
	baseURL    string
	signingKey string
	client     *http.Client

	principal  string
	lastStatus int
	lastBody   map[string]interface{}
}

func NewTestContext() *TestContext {
	baseURL := os.Getenv("SPONSORREG_E2E_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		signingKey = "dev-secret-key-change-in-production"
	}
	return &TestContext{
		baseURL:    baseURL,
		signingKey: signingKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.principal = ""
	tc.lastStatus = 0
	tc.lastBody = nil
}

// ActAs makes subsequent requests carry a token for the given principal.
func (tc *TestContext) ActAs(principal string) {
	tc.principal = principal
}

func (tc *TestContext) token() (string, error) {
	claims := jwt.MapClaims{
		"principal": tc.principal,
		"iss":       "sponsorreg",
		"aud":       "sponsorreg-api",
		"exp":       time.Now().Add(time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tc.signingKey))
}

func (tc *TestContext) do(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.principal != "" {
		token, err := tc.token()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody = nil
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		var decoded map[string]interface{}
		if err := json.Unmarshal(raw, &decoded); err == nil {
			tc.lastBody = decoded
		}
	}
	return nil
}

// POST sends a JSON request to the API.
func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.do(http.MethodPost, path, body)
}

// PUT sends a JSON request to the API.
func (tc *TestContext) PUT(path string, body interface{}) error {
	return tc.do(http.MethodPut, path, body)
}

// GET fetches from the API.
func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

// LastStatus returns the status code of the last response.
func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

// GetResponseField returns a field from the last JSON response body.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	if tc.lastBody == nil {
		return nil, fmt.Errorf("last response had no JSON body")
	}
	value, ok := tc.lastBody[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response: %v", field, tc.lastBody)
	}
	return value, nil
}
