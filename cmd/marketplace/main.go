package main

import (
	"github.com/megomed/marketplace/internal/backend"
	"github.com/megomed/marketplace/internal/clock"
	"github.com/megomed/marketplace/internal/config"
	"github.com/megomed/marketplace/internal/inflight"
	"github.com/megomed/marketplace/internal/logger"
	"github.com/megomed/marketplace/internal/observability"
	"github.com/megomed/marketplace/internal/server"
	"github.com/megomed/marketplace/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		clock.Module,
		db.Module,

		// Workflow plumbing
		backend.Module,
		inflight.Module,

		// HTTP surface with the invoice, subscription and audit domains
		server.Module,
	)
	app.Run()
}
