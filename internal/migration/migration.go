// Package migration applies the database schema. Postgres deployments run
// the embedded SQL migrations under an advisory lock; sqlite deployments
// (dev, tests) use gorm AutoMigrate instead, since the migrations are
// written in postgres DDL.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/talentbill/talentbill/internal/config"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	invoicedomain "github.com/talentbill/talentbill/internal/invoice/domain"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	subscriptiondomain "github.com/talentbill/talentbill/internal/subscription/domain"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "sql"

// Run applies the schema for the configured driver.
func Run(conn *gorm.DB, cfg config.Config) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if cfg.Database.Driver == "postgres" {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return runEmbedded(sqlDB)
	}

	return conn.AutoMigrate(
		&employerdomain.Employer{},
		&plandomain.PlanDefinition{},
		&paymentdomain.PaymentRecord{},
		&subscriptiondomain.SubscriptionRecord{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceCounter{},
	)
}

func runEmbedded(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	unlock, err := acquireAdvisoryLock(ctx, db)
	if err != nil {
		return err
	}
	defer func() {
		_ = unlock(context.Background())
	}()

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := ensureNotDirty(migrator); err != nil {
		return err
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return ensureNotDirty(migrator)
}

func ensureNotDirty(migrator *migrate.Migrate) error {
	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database migrations are dirty at version %d", version)
	}
	return nil
}
