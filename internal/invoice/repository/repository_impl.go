package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/talentbill/talentbill/internal/invoice/domain"
	"github.com/talentbill/talentbill/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) invoicedomain.Repository {
	return &repo{db: db}
}

// NextSequence is the one true atomic read-modify-write in this codebase.
// The increment and the read happen in a single UPDATE ... RETURNING so the
// database serializes concurrent callers; a read-then-write pair would hand
// out duplicate numbers. Requires postgres or sqlite >= 3.35.
func (r *repo) NextSequence(ctx context.Context, db *gorm.DB, year int) (int64, error) {
	if db == nil {
		db = r.db
	}

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&invoicedomain.InvoiceCounter{Year: year, Seq: 0, UpdatedAt: time.Now().UTC()}).Error
	if err != nil {
		return 0, err
	}

	var seq int64
	err = db.WithContext(ctx).Raw(
		`UPDATE invoice_counters SET seq = seq + 1, updated_at = ? WHERE year = ? RETURNING seq`,
		time.Now().UTC(),
		year,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	if seq == 0 {
		return 0, fmt.Errorf("invoice counter missing for year %d", year)
	}
	return seq, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *invoicedomain.Invoice) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, employerID snowflake.ID, number string) (*invoicedomain.Invoice, error) {
	if db == nil {
		db = r.db
	}
	var invoice invoicedomain.Invoice
	err := db.WithContext(ctx).
		Where("employer_id = ? AND invoice_number = ?", employerID, number).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, employerID snowflake.ID, page pagination.Pagination) ([]*invoicedomain.Invoice, error) {
	if db == nil {
		db = r.db
	}
	var items []*invoicedomain.Invoice
	query := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("employer_id = ?", employerID)
	if err := page.Apply(query).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status invoicedomain.InvoiceStatus) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
