package datamodel

import (
	"github.com/frahmantamala/facility-management/internal/core/datamodel/deployment"
	"github.com/frahmantamala/facility-management/internal/core/datamodel/facility"
	"github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/facility-management/internal/core/datamodel/schedule"
	"github.com/frahmantamala/facility-management/internal/core/datamodel/ticket"
	"github.com/frahmantamala/facility-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// AllModels lists every persisted row type. Production schemas come from db/migrations.
func AllModels() []interface{} {
	return []interface{}{
		&user.User{},
		&user.Permission{},
		&user.UserPermission{},
		&facility.Building{},
		&facility.Floor{},
		&facility.Room{},
		&inventory.StorageItem{},
		&inventory.Asset{},
		&deployment.DeploymentRecord{},
		&ticket.Ticket{},
		&ticket.TicketComment{},
		&schedule.Schedule{},
	}
}

// AutoMigrate creates the schema for in-memory databases used by tests and local tooling.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
