// Package server exposes the billing core over HTTP. Authentication is
// delegated to the upstream portal; requests arrive with the employer
// identity already established in the X-Employer-ID header.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/talentbill/talentbill/internal/config"
	invoicedomain "github.com/talentbill/talentbill/internal/invoice/domain"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine, NewServer),
	fx.Invoke(RegisterRoutes, RunHTTP),
)

type Server struct {
	log        *zap.Logger
	cfg        config.Config
	db         *gorm.DB
	paymentSvc paymentdomain.Service
	invoiceSvc invoicedomain.Service
	planSvc    plandomain.Service
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	DB         *gorm.DB
	PaymentSvc paymentdomain.Service
	InvoiceSvc invoicedomain.Service
	PlanSvc    plandomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		log:        p.Log.Named("server"),
		cfg:        p.Cfg,
		db:         p.DB,
		paymentSvc: p.PaymentSvc,
		invoiceSvc: p.InvoiceSvc,
		planSvc:    p.PlanSvc,
	}
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	gin.SetMode(ginMode(cfg.Server.Mode))
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))
	return engine
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	access := log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		access.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func RegisterRoutes(engine *gin.Engine, s *Server) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/readyz", s.Readyz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.GET("/plans", s.ListPlans)
	api.GET("/plans/:code", s.GetPlan)

	authed := api.Group("", EmployerAuth())
	{
		authed.POST("/payments/orders", s.CreateOrder)
		authed.POST("/payments/verify", s.VerifyPayment)
		authed.GET("/payments", s.ListPayments)
		authed.GET("/payments/stats", s.GetPaymentStats)
		authed.GET("/payments/:id", s.GetPayment)

		authed.GET("/invoices", s.ListInvoices)
		authed.GET("/invoices/:number", s.GetInvoice)
		authed.GET("/invoices/:number/download", s.DownloadInvoice)
		authed.POST("/invoices/:number/void", s.VoidInvoice)
	}
}

func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.Server.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
