package main

import (
	"github.com/signupd/signupd/config"
	"github.com/signupd/signupd/database"
	"github.com/signupd/signupd/handlers"
	"github.com/signupd/signupd/server"
	"github.com/signupd/signupd/services/account"
	"github.com/signupd/signupd/services/logging"
	"github.com/signupd/signupd/services/mail"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.NopLogger,
		config.Module,
		logging.Module,
		fx.Supply(database.WithModels(&account.Account{})),
		database.Module,
		mail.Module,
		account.Module,
		server.NewProvider(),
		handlers.Module,
	)

	app.Run()
}
