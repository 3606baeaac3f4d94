package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
)

// RenderPayslip renders a payslip as a single-page A4 PDF.
func RenderPayslip(p payroll.Payslip, c payroll.Cycle) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(40, 10, "Payslip")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 12)
	doc.Cell(0, 8, fmt.Sprintf("Employee: %s", p.EmployeeName))
	doc.Ln(7)
	doc.Cell(0, 8, fmt.Sprintf("Period: %s to %s", c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02")))
	doc.Ln(7)
	doc.Cell(0, 8, fmt.Sprintf("Pay date: %s", c.PayDate.Format("2006-01-02")))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, "Earnings and deductions")
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 11)
	for _, line := range p.Lines {
		doc.Cell(120, 7, line.Label)
		doc.CellFormat(40, 7, line.Amount.StringFixed(2), "", 0, "R", false, 0, "")
		doc.Ln(7)
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(120, 8, "Gross Salary")
	doc.CellFormat(40, 8, p.GrossSalary.StringFixed(2), "", 0, "R", false, 0, "")
	doc.Ln(8)
	doc.Cell(120, 8, "Total Deductions")
	doc.CellFormat(40, 8, p.TotalDeductions.Neg().StringFixed(2), "", 0, "R", false, 0, "")
	doc.Ln(8)
	doc.Cell(120, 8, "Net Salary")
	doc.CellFormat(40, 8, p.NetSalary.StringFixed(2), "", 0, "R", false, 0, "")
	doc.Ln(10)

	if len(p.Allocations) > 0 {
		doc.SetFont("Helvetica", "B", 12)
		doc.Cell(0, 8, "Cost allocation")
		doc.Ln(8)
		doc.SetFont("Helvetica", "", 11)
		for _, a := range p.Allocations {
			doc.Cell(120, 7, a.EntityID)
			doc.CellFormat(40, 7, a.NetAmount.StringFixed(2), "", 0, "R", false, 0, "")
			doc.Ln(7)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}
