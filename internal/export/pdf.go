package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/terraincognita07/worktrace/internal/services"
)

const reportTitle = "Worktrace Report"

// PDFMeta is the branding and range printed above the table.
type PDFMeta struct {
	CompanyName string
	From        *time.Time
	To          *time.Time
	GeneratedAt time.Time
}

var pdfGrid = []uint{2, 2, 2, 1, 2, 1, 2}

// RenderReportPDF lays the summary rows out as an A4 table.
func RenderReportPDF(rows []services.ReportRow, meta PDFMeta) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(15, 10, 15)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(reportTitle, props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(subtitle(meta), props.Text{
					Top:   2,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  10,
				})
			})
		})
	})

	headers := []string{"Client", "Project", "User", "Total", "Billable", "Non-billable", "Amount"}
	body := make([][]string, 0, len(rows))
	var totalMinutes int64
	var totalAmount decimal.Decimal
	priced := false
	for _, row := range rows {
		totalMinutes += row.TotalMinutes
		if row.TotalAmount != nil {
			totalAmount = totalAmount.Add(*row.TotalAmount)
			priced = true
		}
		body = append(body, []string{
			row.Client,
			row.Project,
			row.User,
			formatMinutes(row.TotalMinutes),
			formatMinutes(row.BillableMinutes),
			formatMinutes(row.NonBillableMinutes),
			dashIfEmpty(formatAmount(row)),
		})
	}

	if len(body) == 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("No time entries match this report.", props.Text{Top: 3, Align: consts.Center, Size: 10})
			})
		})
	} else {
		m.TableList(headers, body, props.TableList{
			HeaderProp: props.TableListContent{
				Size:      9,
				GridSizes: pdfGrid,
			},
			ContentProp: props.TableListContent{
				Size:      8,
				GridSizes: pdfGrid,
			},
			Align:                consts.Left,
			AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
			HeaderContentSpace:   1,
			Line:                 false,
		})
	}

	summary := "Total time: " + formatMinutes(totalMinutes)
	if priced {
		summary += "  Total amount: " + services.FormatMoney(totalAmount)
	}
	m.Row(15, func() {
		m.Col(12, func() {
			m.Text(summary, props.Text{
				Top:   6,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  11,
			})
		})
	})

	output, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return output.Bytes(), nil
}

func subtitle(meta PDFMeta) string {
	text := meta.GeneratedAt.Format("2006-01-02 15:04")
	if meta.From != nil || meta.To != nil {
		text = formatBound(meta.From) + " - " + formatBound(meta.To) + " | " + text
	}
	if meta.CompanyName != "" {
		text = meta.CompanyName + " | " + text
	}
	return text
}

func formatBound(day *time.Time) string {
	if day == nil {
		return "..."
	}
	return day.Format("2006-01-02")
}

func formatMinutes(minutes int64) string {
	return strconv.FormatInt(minutes/60, 10) + "h " + fmt.Sprintf("%02dm", minutes%60)
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
