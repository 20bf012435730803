package database

import (
	"github.com/clubworks/messaging/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Room{},
	&models.RoomMember{},
	&models.Message{},
	&models.Attachment{},
	&models.Reaction{},
	&models.Post{},
	&models.Comment{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
