package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/db"
	"github.com/terraincognita07/worktrace/internal/observability"
)

const (
	testSecretKey     = "worktrace-test-secret-key-0123456789"
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "Adm1nSecret"
)

type testApp struct {
	app     *fiber.App
	handler *Handler
	clock   time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithOptions(t, Options{})
}

func newTestAppWithOptions(t *testing.T, options Options) *testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "worktrace-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	options.SecretKey = testSecretKey
	options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, err := NewHandler(database, options)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	harness := &testApp{handler: handler, clock: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	handler.now = func() time.Time { return harness.clock }

	app := fiber.New()
	app.Use(observability.RequestIDMiddleware())
	RegisterRoutes(app, handler)
	harness.app = app

	if _, err := handler.authService.CreateAdmin(testAdminEmail, testAdminPassword, "Ada", "Admin"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return harness
}

func (harness *testApp) advance(duration time.Duration) {
	harness.clock = harness.clock.Add(duration)
}

func (harness *testApp) do(t *testing.T, method string, path string, cookie string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}

	response, err := harness.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}
	return response, raw
}

// expect performs the request, checks the status and decodes the body into
// target when target is not nil.
func (harness *testApp) expect(t *testing.T, method string, path string, cookie string, payload any, status int, target any) {
	t.Helper()

	response, raw := harness.do(t, method, path, cookie, payload)
	if response.StatusCode != status {
		t.Fatalf("%s %s expected status %d, got %d: %s", method, path, status, response.StatusCode, raw)
	}
	if target != nil {
		if err := json.Unmarshal(raw, target); err != nil {
			t.Fatalf("%s %s decode body: %v (%s)", method, path, err, raw)
		}
	}
}

func (harness *testApp) login(t *testing.T, email string, password string) string {
	t.Helper()

	response, raw := harness.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{Email: email, Password: password})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d: %s", response.StatusCode, raw)
	}
	access := responseCookie(response.Cookies(), accessCookieName)
	if access == nil || access.Value == "" {
		t.Fatal("access cookie is missing in login response")
	}
	return access.Name + "=" + access.Value
}

func (harness *testApp) adminCookie(t *testing.T) string {
	t.Helper()
	return harness.login(t, testAdminEmail, testAdminPassword)
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

type apiErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type pageOf[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

// seedHourlyProject creates a client and an hourly project billed at rate
// through the API and returns them.
func (harness *testApp) seedHourlyProject(t *testing.T, admin string, clientEmail string, rate string) (createdClientResponse, projectResponse) {
	t.Helper()

	client := createdClientResponse{}
	harness.expect(t, http.MethodPost, "/api/clients", admin, fiber.Map{
		"name":  "Client " + clientEmail,
		"email": clientEmail,
	}, http.StatusCreated, &client)

	project := projectResponse{}
	harness.expect(t, http.MethodPost, "/api/projects", admin, fiber.Map{
		"name":         "Website",
		"client":       client.ID,
		"billing_type": "hourly",
		"hourly_rate":  rate,
		"visibility":   "client",
	}, http.StatusCreated, &project)
	return client, project
}
