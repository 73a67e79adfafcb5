package storage

import (
	"fmt"
	"log/slog"

	"github.com/localhive/event-catalog/pkg/config"
	"github.com/localhive/event-catalog/pkg/model"
	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase(logger *slog.Logger, c config.Postgresql) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable", c.Host, c.Username, c.Password, c.DatabaseName, c.Port)

	databaseConfig := gorm.Config{
		Logger: slogGorm.New(slogGorm.WithHandler(logger.Handler())),
		// translate postgres errors so unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), &databaseConfig)
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.UserSavedEvent{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
