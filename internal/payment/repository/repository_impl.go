package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	"github.com/talentbill/talentbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) paymentdomain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *paymentdomain.PaymentRecord) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, employerID, id snowflake.ID) (*paymentdomain.PaymentRecord, error) {
	if db == nil {
		db = r.db
	}
	var record paymentdomain.PaymentRecord
	err := db.WithContext(ctx).
		Where("employer_id = ? AND id = ?", employerID, id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*paymentdomain.PaymentRecord, error) {
	if db == nil {
		db = r.db
	}
	var record paymentdomain.PaymentRecord
	err := db.WithContext(ctx).Where("gateway_order_id = ?", orderID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *paymentdomain.PaymentRecord) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Save(record).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, employerID snowflake.ID, page pagination.Pagination) ([]*paymentdomain.PaymentRecord, error) {
	if db == nil {
		db = r.db
	}
	var items []*paymentdomain.PaymentRecord
	query := db.WithContext(ctx).
		Model(&paymentdomain.PaymentRecord{}).
		Where("employer_id = ?", employerID)
	if err := page.Apply(query).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB, employerID snowflake.ID) ([]paymentdomain.StatusCount, error) {
	if db == nil {
		db = r.db
	}
	var rows []paymentdomain.StatusCount
	err := db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
		 FROM payment_records
		 WHERE employer_id = ?
		 GROUP BY status`,
		employerID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
