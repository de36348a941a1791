package audit

import (
	auditdomain "github.com/megomed/marketplace/internal/audit/domain"
	"github.com/megomed/marketplace/internal/audit/repository"
	"github.com/megomed/marketplace/internal/audit/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Invoke(Migrate),
)

func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&auditdomain.AuditLog{})
}
