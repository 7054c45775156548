package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/talentbill/talentbill/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound = errors.New("invoice_not_found")
	ErrInvoiceVoided   = errors.New("invoice_already_void")
)

type Repository interface {
	// NextSequence atomically increments the counter for the year and
	// returns the new value. Two concurrent callers must never observe the
	// same sequence, in-process or across processes.
	NextSequence(ctx context.Context, db *gorm.DB, year int) (int64, error)
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByNumber(ctx context.Context, db *gorm.DB, employerID snowflake.ID, number string) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, employerID snowflake.ID, page pagination.Pagination) ([]*Invoice, error)
	SetStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status InvoiceStatus) error
}
