package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSettingsAreAdminOnlyAndHideSMTPPassword(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t)
	admin := harness.adminCookie(t)
	client, _ := harness.seedHourlyProject(t, admin, "acme@example.com", "60")
	clientCookie := harness.login(t, "acme@example.com", client.InitialPassword)
	harness.expect(t, http.MethodGet, "/api/settings", clientCookie, nil, http.StatusForbidden, nil)
	harness.expect(t, http.MethodPut, "/api/settings", clientCookie, fiber.Map{"company_name": "Mine"}, http.StatusForbidden, nil)

	conflicting := apiErrorBody{}
	harness.expect(t, http.MethodPut, "/api/settings", admin, fiber.Map{"smtp_use_tls": true, "smtp_use_ssl": true}, http.StatusBadRequest, &conflicting)
	if conflicting.Fields["smtp_use_ssl"] == "" {
		t.Fatalf("expected smtp_use_ssl field error, got %+v", conflicting)
	}
	harness.expect(t, http.MethodPut, "/api/settings", admin, fiber.Map{"smtp_port": 70000}, http.StatusBadRequest, nil)

	response, raw := harness.do(t, http.MethodPut, "/api/settings", admin, fiber.Map{
		"company_name":  "  Worktrace Studio ",
		"billing_email": "Billing@Example.com",
		"smtp_host":     "smtp.example.com",
		"smtp_port":     587,
		"smtp_use_tls":  true,
		"smtp_password": "mail-secret",
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected settings update status 200, got %d: %s", response.StatusCode, raw)
	}
	if strings.Contains(string(raw), "mail-secret") {
		t.Fatalf("smtp password must not be echoed: %s", raw)
	}

	settings := settingsResponse{}
	harness.expect(t, http.MethodGet, "/api/settings", admin, nil, http.StatusOK, &settings)
	if settings.CompanyName != "Worktrace Studio" || settings.BillingEmail != "billing@example.com" {
		t.Fatalf("unexpected settings: %+v", settings)
	}
	if !settings.SMTPPasswordSet || settings.SMTPPort != 587 || !settings.SMTPUseTLS {
		t.Fatalf("expected stored smtp configuration, got %+v", settings)
	}

	harness.expect(t, http.MethodPut, "/api/settings", admin, fiber.Map{"smtp_host": "mail.example.com"}, http.StatusOK, &settings)
	if !settings.SMTPPasswordSet {
		t.Fatal("omitting smtp_password must keep the stored secret")
	}
	harness.expect(t, http.MethodPut, "/api/settings", admin, fiber.Map{"smtp_password": ""}, http.StatusOK, &settings)
	if settings.SMTPPasswordSet {
		t.Fatal("empty smtp_password must clear the stored secret")
	}
}
