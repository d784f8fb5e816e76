package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestTimerLifecycleCreatesEntry(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t)
	admin := harness.adminCookie(t)
	_, project := harness.seedHourlyProject(t, admin, "acme@example.com", "60")

	timer := timerResponse{}
	harness.expect(t, http.MethodPost, "/api/timers", admin, fiber.Map{"project": project.ID, "notes": "  homepage  "}, http.StatusCreated, &timer)
	if timer.Status != "running" || timer.ElapsedSeconds != 0 || timer.Notes != "homepage" {
		t.Fatalf("unexpected started timer: %+v", timer)
	}
	harness.expect(t, http.MethodPost, "/api/timers", admin, fiber.Map{"project": project.ID}, http.StatusConflict, nil)
	harness.expect(t, http.MethodPost, fmt.Sprintf("/api/timers/%d/resume", timer.ID), admin, nil, http.StatusConflict, nil)

	harness.advance(5 * time.Minute)
	paused := timerResponse{}
	harness.expect(t, http.MethodPost, fmt.Sprintf("/api/timers/%d/pause", timer.ID), admin, nil, http.StatusOK, &paused)
	if paused.Status != "paused" || paused.AccumulatedSeconds != 300 || paused.LastResumedAt != nil {
		t.Fatalf("unexpected paused timer: %+v", paused)
	}
	harness.expect(t, http.MethodPost, fmt.Sprintf("/api/timers/%d/pause", timer.ID), admin, nil, http.StatusConflict, nil)

	harness.advance(2 * time.Minute)
	harness.expect(t, http.MethodPost, fmt.Sprintf("/api/timers/%d/resume", timer.ID), admin, nil, http.StatusOK, nil)

	harness.advance(6*time.Minute + 10*time.Second)
	current := timerResponse{}
	harness.expect(t, http.MethodGet, fmt.Sprintf("/api/timers/%d", timer.ID), admin, nil, http.StatusOK, &current)
	if current.ElapsedSeconds != 670 {
		t.Fatalf("expected 670 elapsed seconds, got %d", current.ElapsedSeconds)
	}

	entry := timeEntryResponse{}
	harness.expect(t, http.MethodPost, fmt.Sprintf("/api/timers/%d/stop", timer.ID), admin, fiber.Map{"summary": "Hero section"}, http.StatusCreated, &entry)
	if entry.DurationMinutes != 12 || entry.Task != "Logged work" || entry.Notes != "Hero section" || !entry.Billable {
		t.Fatalf("unexpected stopped entry: %+v", entry)
	}
	if entry.Date != "2026-03-02" || entry.Start == nil || *entry.Start != "09:00:00" || entry.End == nil || *entry.End != "09:13:10" {
		t.Fatalf("unexpected stopped entry clock: %+v", entry)
	}
	if entry.Amount == nil || *entry.Amount != "12.00" {
		t.Fatalf("expected amount 12.00, got %v", entry.Amount)
	}

	remaining := pageOf[timerResponse]{}
	harness.expect(t, http.MethodGet, "/api/timers", admin, nil, http.StatusOK, &remaining)
	if remaining.Count != 0 {
		t.Fatalf("expected stopped timer to be removed, got %+v", remaining)
	}
	harness.expect(t, http.MethodPost, fmt.Sprintf("/api/timers/%d/stop", timer.ID), admin, nil, http.StatusNotFound, nil)
}

func TestTimersAreScopedToTheirOwner(t *testing.T) {
	t.Parallel()

	harness := newTestApp(t)
	admin := harness.adminCookie(t)
	client, project := harness.seedHourlyProject(t, admin, "acme@example.com", "60")

	timer := timerResponse{}
	harness.expect(t, http.MethodPost, "/api/timers", admin, fiber.Map{"project": project.ID}, http.StatusCreated, &timer)

	clientCookie := harness.login(t, "acme@example.com", client.InitialPassword)
	visible := pageOf[timerResponse]{}
	harness.expect(t, http.MethodGet, "/api/timers", clientCookie, nil, http.StatusOK, &visible)
	if visible.Count != 0 {
		t.Fatalf("expected client to see no foreign timers, got %+v", visible)
	}
	harness.expect(t, http.MethodGet, fmt.Sprintf("/api/timers/%d", timer.ID), clientCookie, nil, http.StatusNotFound, nil)
	harness.expect(t, http.MethodPost, fmt.Sprintf("/api/timers/%d/stop", timer.ID), clientCookie, nil, http.StatusNotFound, nil)
	harness.expect(t, http.MethodPost, "/api/timers", clientCookie, fiber.Map{"project": project.ID}, http.StatusForbidden, nil)
	harness.expect(t, http.MethodPost, "/api/timers", admin, fiber.Map{"project": 999}, http.StatusNotFound, nil)
}
