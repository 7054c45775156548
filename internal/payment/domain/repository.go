package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/talentbill/talentbill/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *PaymentRecord) error
	FindByID(ctx context.Context, db *gorm.DB, employerID, id snowflake.ID) (*PaymentRecord, error)
	FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*PaymentRecord, error)
	Update(ctx context.Context, db *gorm.DB, record *PaymentRecord) error
	List(ctx context.Context, db *gorm.DB, employerID snowflake.ID, page pagination.Pagination) ([]*PaymentRecord, error)
	CountByStatus(ctx context.Context, db *gorm.DB, employerID snowflake.ID) ([]StatusCount, error)
}
