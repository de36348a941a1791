package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/megomed/marketplace/internal/audit"
	auditdomain "github.com/megomed/marketplace/internal/audit/domain"
	"github.com/megomed/marketplace/internal/auth/session"
	"github.com/megomed/marketplace/internal/config"
	"github.com/megomed/marketplace/internal/invoice"
	invoicedomain "github.com/megomed/marketplace/internal/invoice/domain"
	obslogger "github.com/megomed/marketplace/internal/observability/logger"
	obsmetrics "github.com/megomed/marketplace/internal/observability/metrics"
	obstracing "github.com/megomed/marketplace/internal/observability/tracing"
	"github.com/megomed/marketplace/internal/subscription"
	subscriptiondomain "github.com/megomed/marketplace/internal/subscription/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	session.Module,
	invoice.Module,
	subscription.Module,
	audit.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterRoutes()
	}),
	fx.Invoke(RunHTTP),
)

func NewEngine(log *zap.Logger, mwCfg obslogger.MiddlewareConfig, m *obsmetrics.Metrics) *gin.Engine {
	mwCfg.ErrorClassifier = classifyErrorForLog

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, mwCfg))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})

	return r
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	sessions        *session.Manager
	invoiceSvc      invoicedomain.Service
	subscriptionSvc subscriptiondomain.Service
	auditSvc        auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	Sessions        *session.Manager
	InvoiceSvc      invoicedomain.Service
	SubscriptionSvc subscriptiondomain.Service
	AuditSvc        auditdomain.Service `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		sessions:        p.Sessions,
		invoiceSvc:      p.InvoiceSvc,
		subscriptionSvc: p.SubscriptionSvc,
		auditSvc:        p.AuditSvc,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.SessionRequired())

	// -------- Invoices --------
	invoices := api.Group("/invoices", s.RoleRequired())
	{
		invoices.GET("", s.ListInvoices)
		invoices.POST("/:id/extend-request", s.ResolveExtendRequest)
		invoices.POST("/:id/pay", s.PayInvoice)
	}

	// -------- Subscriptions --------
	api.GET("/subscriptions", s.ListSubscriptions)
	api.POST("/subscriptions/:id/renew", s.RenewSubscription)

	// -------- Audit --------
	api.GET("/audit-logs", s.ListAuditLogs)
}
