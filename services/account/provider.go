package account

import (
	"github.com/signupd/signupd/config"
	"github.com/signupd/signupd/services/logging"
	"github.com/signupd/signupd/services/mail"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideAccountService(cfg *config.Config, db *gorm.DB, mailService *mail.Service, logger *logging.Service) *Service {
	service := NewService(cfg, db, logger)
	service.SetMailService(mailService)
	return service
}

var Module = fx.Options(
	fx.Provide(ProvideAccountService),
)
