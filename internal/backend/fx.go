package backend

import (
	"github.com/megomed/marketplace/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("backend",
	fx.Provide(
		provideConfig,
		NewClient,
		NewInvoiceClient,
		NewSubscriptionClient,
	),
)

func provideConfig(cfg config.Config) config.BackendConfig {
	return cfg.Backend
}
