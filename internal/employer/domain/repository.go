package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrEmployerNotFound = errors.New("employer_not_found")

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, employer *Employer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Employer, error)
	// ApplyEntitlement overwrites the subscription fields, last writer wins.
	ApplyEntitlement(ctx context.Context, db *gorm.DB, id snowflake.ID, ent Entitlement) error
}
