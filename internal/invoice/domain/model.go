package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusVoid   InvoiceStatus = "void"
)

// BillTo is the employer identity frozen at issuance time. The invoice must
// not change when the employer later edits their profile.
type BillTo struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
}

type LineItem struct {
	Description string `json:"description"`
	PlanCode    string `json:"plan_code"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Amount      int64  `json:"amount"`
}

// Invoice is immutable once issued; the only permitted mutation is the
// status flip to void. The number is never reused, voided or not.
type Invoice struct {
	ID             snowflake.ID   `json:"id" gorm:"primaryKey"`
	EmployerID     snowflake.ID   `json:"employer_id" gorm:"not null;index"`
	PaymentID      snowflake.ID   `json:"payment_id" gorm:"not null;index"`
	SubscriptionID *snowflake.ID  `json:"subscription_id"`
	InvoiceNumber  string         `json:"invoice_number" gorm:"type:varchar(20);not null;uniqueIndex"`
	InvoiceDate    time.Time      `json:"invoice_date" gorm:"not null"`
	BillTo         datatypes.JSON `json:"bill_to" gorm:"type:jsonb;not null"`
	Items          datatypes.JSON `json:"items" gorm:"type:jsonb;not null"`
	Subtotal       int64          `json:"subtotal" gorm:"not null"`
	TaxRate        float64        `json:"tax_rate" gorm:"not null"`
	TaxAmount      int64          `json:"tax_amount" gorm:"not null"`
	TotalAmount    int64          `json:"total_amount" gorm:"not null"`
	Currency       string         `json:"currency" gorm:"type:varchar(3);not null"`
	PDFURL         string         `json:"pdf_url" gorm:"type:varchar(512)"`
	PDFPublicID    string         `json:"pdf_public_id" gorm:"type:varchar(255)"`
	Status         InvoiceStatus  `json:"status" gorm:"type:varchar(10);not null"`
	CreatedAt      time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"not null"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceCounter is one row per calendar year. Seq must only ever move
// through an atomic increment-and-read; see Repository.NextSequence.
type InvoiceCounter struct {
	Year      int       `json:"year" gorm:"primaryKey"`
	Seq       int64     `json:"seq" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InvoiceCounter) TableName() string { return "invoice_counters" }

// FormatNumber renders the durable externally visible identifier,
// INV-{year}-{seq:04d}. The format must never change for issued invoices.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}
