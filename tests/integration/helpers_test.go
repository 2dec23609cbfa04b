//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"testing"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

// newClient returns a client that keeps the session cookie between calls.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, path string, payload interface{}) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, baseURL()+path, &body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// a distinct client IP per test keeps the login limiter from leaking between runs
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", len(t.Name())%250+1))

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		var errResp map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("expected %d, got %d, body: %v", want, resp.StatusCode, errResp)
	}
}

func siteLogin(t *testing.T, client *http.Client) {
	t.Helper()
	password := envOrDefault("INTEGRATION_SITE_PASSWORD", "classroom")
	resp := doJSON(t, client, http.MethodPost, "/api/auth/site-login", map[string]string{"password": password})
	defer resp.Body.Close()
	expectStatus(t, resp, http.StatusOK)
}

func adminLogin(t *testing.T, client *http.Client) {
	t.Helper()
	password := os.Getenv("INTEGRATION_ADMIN_PASSWORD")
	if password == "" {
		t.Skip("INTEGRATION_ADMIN_PASSWORD not set")
	}
	resp := doJSON(t, client, http.MethodPost, "/api/auth/login", map[string]string{"password": password})
	defer resp.Body.Close()
	expectStatus(t, resp, http.StatusOK)
}
