// Package classification Community Event Catalog.
//
// Backend of the community event catalog.
//
//	Version: 0.1.0
//	Contact: <info@localhive.org> https://github.com/localhive/event-catalog
//
//	Consumes:
//	  - application/json
//
//	Produces:
//	  - application/json
//
//	SecurityDefinitions:
//	  oauth2:
//	    type: oauth2
//	    tokenUrl: /tokens
//	    refreshUrl: /refresh
//	    flow: password
//
// swagger:meta
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-mail/mail"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/localhive/event-catalog/internal/handler"
	"github.com/localhive/event-catalog/internal/log"
	"github.com/localhive/event-catalog/internal/middleware"
	"github.com/localhive/event-catalog/internal/server"
	"github.com/localhive/event-catalog/pkg/config"
	"github.com/localhive/event-catalog/pkg/event"
	"github.com/localhive/event-catalog/pkg/feed"
	"github.com/localhive/event-catalog/pkg/health"
	"github.com/localhive/event-catalog/pkg/storage"
	"github.com/localhive/event-catalog/pkg/token"
	"github.com/localhive/event-catalog/pkg/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Exiting", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Environment)
	slog.SetDefault(logger)

	if err := handler.RegisterValidation(); err != nil {
		return err
	}

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return err
	}

	redis, err := storage.NewRedis(cfg.Redis.Host, cfg.Redis.Port)
	if err != nil {
		return err
	}

	amqpConnection, err := amqp.Dial(cfg.RabbitMq.GetUrl())
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}
	defer func() {
		if err := amqpConnection.Close(); err != nil {
			logger.Error("Failed to close AMQP connection", "error", err)
		}
	}()
	amqpChannel, err := amqpConnection.Channel()
	if err != nil {
		return fmt.Errorf("failed to open AMQP channel: %v", err)
	}

	tokenRepository := token.NewRepository(redis)
	tokenService, err := token.NewService(
		logger,
		tokenRepository,
		cfg.Authentication.PrivateKey,
		cfg.Authentication.AccessTokenExpirationSeconds,
		cfg.Authentication.RefreshTokenSecretKey,
		cfg.Authentication.RefreshTokenExpirationSeconds,
	)
	if err != nil {
		return err
	}

	userRepository := user.NewRepository(db)
	dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	userService := user.NewService(cfg.UIUrl, userRepository, dialer)
	userHandler := user.NewHandler(cfg, userService, tokenService)

	authentication := middleware.NewAuthentication(&cfg.Authentication.PrivateKey.PublicKey, userService)

	broker := feed.NewBroker()
	if err := feed.NewConsumer(logger, amqpChannel, broker).Consume(); err != nil {
		return err
	}
	publisher, err := feed.NewPublisher(logger, amqpChannel)
	if err != nil {
		return err
	}
	feedHandler := feed.NewHandler(logger, broker)

	eventRepository := event.NewRepository(db)
	eventService := event.NewService(eventRepository, publisher)
	eventHandler := event.NewHandler(eventService)

	engine := server.GetEngine(logger)
	router := engine.Group(cfg.BasePath)
	health.Routes(router)
	user.Routes(router, authentication, userHandler)
	event.Routes(router, authentication.TokenAuthentication, eventHandler)
	feed.Routes(router, authentication.TokenAuthentication, feedHandler)

	logger.Info("Listening", "port", cfg.Port, "basePath", cfg.BasePath)
	return engine.Run(fmt.Sprintf(":%d", cfg.Port))
}

// newLogger returns the application logger. Logs carry the correlation ID and user of the request
// they are made in and are indented in development so they are easier to read.
func newLogger(environment string) *slog.Logger {
	options := &log.PrettyJSONHandlerOptions{
		PrettyPrint: environment == "DEVELOPMENT",
	}
	return slog.New(log.New(log.NewPrettyJSONHandler(os.Stdout, options)))
}
