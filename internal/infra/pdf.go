package infra

// pdf.go — order receipt generation using go-pdf/fpdf.
// Renders an A7-size ticket: business header, order id and timestamp, item
// table (name, quantity, line total), bold CLP total and the public token
// the customer uses to look the order up.

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// ReceiptItem is one line of the rendered receipt.
type ReceiptItem struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	LineTotalCLP int    `json:"lineTotalCLP"`
}

// Receipt carries everything the PDF needs, denormalized so the renderer
// (and the worker that calls it) never touches the database.
type Receipt struct {
	OrderID      string        `json:"orderId"`
	CustomerName string        `json:"customerName"`
	PublicToken  string        `json:"publicToken"`
	TotalCLP     int           `json:"totalCLP"`
	CreatedAt    time.Time     `json:"createdAt"`
	Items        []ReceiptItem `json:"items"`
}

// GenerateReceiptPDF renders the receipt and returns the raw PDF bytes.
func GenerateReceiptPDF(r *Receipt) ([]byte, error) {
	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Pasteleria Bella", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de Compra", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Order info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Orden %s", r.OrderID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, r.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Cliente: %s", r.CustomerName), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range r.Items {
		name := item.Name
		if len(name) > 26 {
			name = name[:26]
		}
		pdf.CellFormat(col1, 4, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 4, fmt.Sprintf("$%d", item.LineTotalCLP), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.5, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 6, fmt.Sprintf("$%d CLP", r.TotalCLP), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 6)
	pdf.MultiCell(contentW, 3, fmt.Sprintf("Consulte su pedido con el codigo: %s", r.PublicToken), "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
