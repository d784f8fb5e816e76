package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Get("/health", handler.Health)

	auth := api.Group("/auth")
	auth.Get("/csrf", handler.CSRF)
	auth.Post("/login", handler.Login)
	auth.Post("/refresh", handler.Refresh)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Post("/password", handler.AuthRequired, handler.ChangePassword)

	api.Get("/users", handler.AuthRequired, handler.AdminOnly, handler.ListUsers)

	clients := api.Group("/clients", handler.AuthRequired)
	clients.Get("", handler.ListClients)
	clients.Post("", handler.AdminOnly, handler.CreateClient)
	clients.Get("/:id", handler.GetClient)
	clients.Patch("/:id", handler.AdminOnly, handler.UpdateClient)
	clients.Delete("/:id", handler.AdminOnly, handler.DeleteClient)
	clients.Get("/:id/account", handler.ClientAccount)
	clients.Post("/:id/payments", handler.AdminOnly, handler.RecordPayment)
	clients.Post("/:id/charges", handler.AdminOnly, handler.RecordCharge)

	projects := api.Group("/projects", handler.AuthRequired)
	projects.Get("", handler.ListProjects)
	projects.Post("", handler.AdminOnly, handler.CreateProject)
	projects.Get("/:id", handler.GetProject)
	projects.Patch("/:id", handler.AdminOnly, handler.UpdateProject)
	projects.Delete("/:id", handler.AdminOnly, handler.DeleteProject)
	projects.Post("/:id/status", handler.AdminOnly, handler.SetProjectStatus)

	assignments := api.Group("/assignments", handler.AuthRequired, handler.AdminOnly)
	assignments.Get("", handler.ListAssignments)
	assignments.Post("", handler.CreateAssignment)
	assignments.Get("/:id", handler.GetAssignment)
	assignments.Patch("/:id", handler.UpdateAssignment)
	assignments.Delete("/:id", handler.DeleteAssignment)

	rates := api.Group("/hourly-rates", handler.AuthRequired, handler.AdminOnly)
	rates.Get("", handler.ListHourlyRates)
	rates.Post("", handler.CreateHourlyRate)
	rates.Get("/:id", handler.GetHourlyRate)
	rates.Patch("/:id", handler.UpdateHourlyRate)
	rates.Delete("/:id", handler.DeleteHourlyRate)

	entries := api.Group("/time-entries", handler.AuthRequired)
	entries.Get("", handler.ListTimeEntries)
	entries.Post("", handler.CreateTimeEntry)
	entries.Get("/:id", handler.GetTimeEntry)
	entries.Patch("/:id", handler.UpdateTimeEntry)
	entries.Delete("/:id", handler.DeleteTimeEntry)

	timers := api.Group("/timers", handler.AuthRequired)
	timers.Get("", handler.ListTimers)
	timers.Post("", handler.StartTimer)
	timers.Get("/:id", handler.GetTimer)
	timers.Post("/:id/pause", handler.PauseTimer)
	timers.Post("/:id/resume", handler.ResumeTimer)
	timers.Post("/:id/stop", handler.StopTimer)

	reports := api.Group("/reports", handler.AuthRequired)
	reports.Get("/summary", handler.ReportSummary)
	reports.Get("/export.csv", handler.ExportReportCSV)
	reports.Get("/export.pdf", handler.ExportReportPDF)

	settings := api.Group("/settings", handler.AuthRequired, handler.AdminOnly)
	settings.Get("", handler.GetSettings)
	settings.Put("", handler.UpdateSettings)
}
