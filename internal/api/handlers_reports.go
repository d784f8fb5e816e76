package api

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/export"
	"github.com/terraincognita07/worktrace/internal/models"
	"github.com/terraincognita07/worktrace/internal/services"
)

func (handler *Handler) summarizeReport(c *fiber.Ctx) ([]services.ReportRow, models.TimeEntryFilter, error) {
	filter, err := parseEntryFilter(c)
	if err != nil {
		return nil, filter, err
	}
	rows, err := handler.reportService.Summarize(currentCaller(c), filter)
	return rows, filter, err
}

func (handler *Handler) ReportSummary(c *fiber.Ctx) error {
	rows, _, err := handler.summarizeReport(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	results := make([]reportRowResponse, 0, len(rows))
	for _, row := range rows {
		results = append(results, newReportRowResponse(row))
	}
	return c.JSON(results)
}

func (handler *Handler) ExportReportCSV(c *fiber.Ctx) error {
	rows, _, err := handler.summarizeReport(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	var buffer bytes.Buffer
	if err := export.WriteReportCSV(&buffer, rows); err != nil {
		return handler.respondServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment(export.CSVFilename)
	return c.Send(buffer.Bytes())
}

func (handler *Handler) ExportReportPDF(c *fiber.Ctx) error {
	rows, filter, err := handler.summarizeReport(c)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	companyName, err := handler.settingsService.CompanyName()
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	document, err := export.RenderReportPDF(rows, export.PDFMeta{
		CompanyName: companyName,
		From:        filter.From,
		To:          filter.To,
		GeneratedAt: handler.now().In(handler.location),
	})
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(export.PDFFilename)
	return c.Send(document)
}
