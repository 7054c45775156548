package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"github.com/talentbill/talentbill/internal/clock"
	"github.com/talentbill/talentbill/internal/config"
	"github.com/talentbill/talentbill/internal/employer"
	"github.com/talentbill/talentbill/internal/invoice"
	"github.com/talentbill/talentbill/internal/mail"
	"github.com/talentbill/talentbill/internal/migration"
	"github.com/talentbill/talentbill/internal/observability"
	"github.com/talentbill/talentbill/internal/payment"
	"github.com/talentbill/talentbill/internal/plan"
	"github.com/talentbill/talentbill/internal/redis"
	"github.com/talentbill/talentbill/internal/seed"
	"github.com/talentbill/talentbill/internal/server"
	"github.com/talentbill/talentbill/internal/subscription"
	"github.com/talentbill/talentbill/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "talentbill",
		Short:   "TalentBill payment and subscription engine",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd(), newAllCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed the plan catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(demo)
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "also seed a demo employer for local development")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the payment API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations, then start the payment API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(false); err != nil {
				return err
			}
			runServe()
			return nil
		},
	}
}

func runMigrate(demo bool) error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
		fx.Invoke(func(conn *gorm.DB, node *snowflake.Node) error {
			if err := seed.EnsurePlanCatalog(conn); err != nil {
				return err
			}
			if demo {
				_, err := seed.EnsureDemoEmployer(conn, node)
				return err
			}
			return nil
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		mail.Module,
		plan.Module,
		employer.Module,
		subscription.Module,
		invoice.Module,
		payment.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
