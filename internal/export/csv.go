package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/terraincognita07/worktrace/internal/services"
)

const (
	CSVFilename = "worktrace-report.csv"
	PDFFilename = "worktrace-report.pdf"
)

var reportCSVHeaders = []string{
	"client",
	"project",
	"user",
	"total_minutes",
	"billable_minutes",
	"non_billable_minutes",
	"total_amount",
}

// WriteReportCSV writes one line per summary row. An unpriced row leaves
// total_amount empty.
func WriteReportCSV(out io.Writer, rows []services.ReportRow) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(reportCSVHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Client,
			row.Project,
			row.User,
			strconv.FormatInt(row.TotalMinutes, 10),
			strconv.FormatInt(row.BillableMinutes, 10),
			strconv.FormatInt(row.NonBillableMinutes, 10),
			formatAmount(row),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatAmount(row services.ReportRow) string {
	if row.TotalAmount == nil {
		return ""
	}
	return services.FormatMoney(*row.TotalAmount)
}
