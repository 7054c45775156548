// Package render turns priced invoice data into PDF bytes. It is pure:
// no storage, no clock, no network.
package render

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	invoicedomain "github.com/talentbill/talentbill/internal/invoice/domain"
)

// Seller identifies the invoice issuer, taken from configuration.
type Seller struct {
	Name    string
	Address string
	Email   string
}

// Document is everything the PDF shows. BillTo is the employer snapshot
// captured at issuance, not a live reference.
type Document struct {
	Number      string
	Date        string
	Currency    string
	Seller      Seller
	BillTo      invoicedomain.BillTo
	Items       []invoicedomain.LineItem
	Subtotal    int64
	TaxRate     float64
	TaxAmount   int64
	TotalAmount int64
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	r.addHeader(m, doc)
	r.addParties(m, doc)
	r.addItems(m, doc)
	r.addTotals(m, doc)

	rendered, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", doc.Number, err)
	}
	return rendered.GetBytes(), nil
}

func (r *Renderer) addHeader(m core.Maroto, doc Document) {
	m.AddRow(12,
		text.NewCol(6, doc.Seller.Name, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(6, "INVOICE", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(6, doc.Seller.Address, props.Text{Size: 8}),
		text.NewCol(6, "Invoice no: "+doc.Number, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(6, doc.Seller.Email, props.Text{Size: 8}),
		text.NewCol(6, "Date: "+doc.Date, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(12, "Currency: "+doc.Currency, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRows(line.NewRow(4))
}

func (r *Renderer) addParties(m core.Maroto, doc Document) {
	m.AddRow(6, text.NewCol(12, "Bill to", props.Text{Size: 10, Style: fontstyle.Bold}))
	m.AddRow(5, text.NewCol(12, doc.BillTo.CompanyName, props.Text{Size: 9}))
	m.AddRow(5, text.NewCol(12, doc.BillTo.Email, props.Text{Size: 9}))
	if doc.BillTo.Phone != "" {
		m.AddRow(5, text.NewCol(12, doc.BillTo.Phone, props.Text{Size: 9}))
	}
	if doc.BillTo.Address != "" {
		m.AddRow(5, text.NewCol(12, doc.BillTo.Address, props.Text{Size: 9}))
	}
	m.AddRows(line.NewRow(4))
}

func (r *Renderer) addItems(m core.Maroto, doc Document) {
	m.AddRow(7,
		text.NewCol(6, "Description", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range doc.Items {
		m.AddRow(6,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatAmount(item.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRows(line.NewRow(4))
}

func (r *Renderer) addTotals(m core.Maroto, doc Document) {
	m.AddRow(6,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, formatAmount(doc.Subtotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		col.New(8),
		text.NewCol(2, fmt.Sprintf("Tax (%.0f%%)", doc.TaxRate), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, formatAmount(doc.TaxAmount), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, formatAmount(doc.TotalAmount), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
}

func formatAmount(amount int64) string {
	return fmt.Sprintf("%d.00", amount)
}
