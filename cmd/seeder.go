package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/frahmantamala/facility-management/internal/auth"
	facilityDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/facility"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	userDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the permission catalog, one user per role and a sample building for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx := context.Background()
		if clearData {
			if err := clearTables(ctx, gdb); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seedData(ctx, gdb, cfg.Security.BCryptCost); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Seed completed; every seeded user logs in with password:", seedPassword)
	},
}

var seedTables = []string{
	"ticket_comments", "tickets", "schedules", "deployment_records", "assets",
	"storage_items", "rooms", "floors", "buildings", "user_permissions", "permissions", "users",
}

func clearTables(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec("TRUNCATE TABLE " + strings.Join(seedTables, ", ") + " RESTART IDENTITY CASCADE").Error
}

type seedUser struct {
	Email string
	Name  string
	Role  auth.Role
}

var seedUsers = []seedUser{
	{"admin@facility.local", "Facility Admin", auth.RoleAdmin},
	{"technician@facility.local", "Field Technician", auth.RoleTechnician},
	{"member@facility.local", "Staff Member", auth.RoleMember},
}

// seedData is idempotent; rows that already exist are left untouched.
func seedData(ctx context.Context, db *gorm.DB, bcryptCost int) error {
	db = db.WithContext(ctx)

	if err := seedPermissions(db); err != nil {
		return err
	}
	if err := seedUserAccounts(db, bcryptCost); err != nil {
		return err
	}
	return seedFacility(db)
}

func seedPermissions(db *gorm.DB) error {
	rows := make([]userDatamodel.Permission, 0, len(auth.AllCodes()))
	for _, code := range auth.AllCodes() {
		rows = append(rows, userDatamodel.Permission{
			Code:        string(code),
			Description: describeCode(code),
		})
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	fmt.Printf("Permission catalog holds %d codes\n", len(rows))
	return nil
}

// describeCode turns room_create into "Can create room".
func describeCode(code auth.Code) string {
	s := string(code)
	i := strings.LastIndex(s, "_")
	if i < 0 {
		return s
	}
	return fmt.Sprintf("Can %s %s", s[i+1:], s[:i])
}

func seedUserAccounts(db *gorm.DB, bcryptCost int) error {
	hash, err := auth.HashPassword(seedPassword, bcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, u := range seedUsers {
		externalID := "local|" + u.Email

		var existing []userDatamodel.User
		if err := db.Where("external_id = ?", externalID).Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("lookup user %s: %w", u.Email, err)
		}
		if len(existing) > 0 {
			fmt.Printf("%s user already exists: %s\n", u.Role, u.Email)
			continue
		}

		row := userDatamodel.User{
			ExternalID:   externalID,
			Email:        u.Email,
			Name:         u.Name,
			Role:         string(u.Role),
			PasswordHash: &hash,
			IsActive:     true,
		}
		if err := db.Create(&row).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
	}
	return nil
}

func seedFacility(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		building := facilityDatamodel.Building{
			Name:    "Main Building",
			Code:    "MB",
			Address: "1 Campus Road",
		}

		var count int64
		if err := tx.Model(&facilityDatamodel.Building{}).Where("name = ?", building.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("lookup building: %w", err)
		}
		if count > 0 {
			fmt.Println("Sample building already exists; skipping facility data")
			return nil
		}
		if err := tx.Create(&building).Error; err != nil {
			return fmt.Errorf("seed building: %w", err)
		}

		ground := facilityDatamodel.Floor{BuildingID: building.ID, Name: "Ground Floor", Level: 0}
		first := facilityDatamodel.Floor{BuildingID: building.ID, Name: "First Floor", Level: 1}
		if err := tx.Create(&[]*facilityDatamodel.Floor{&ground, &first}).Error; err != nil {
			return fmt.Errorf("seed floors: %w", err)
		}

		storeRoom := facilityDatamodel.Room{FloorID: ground.ID, Name: "Store Room", RoomType: "storage", Capacity: 2}
		lab := facilityDatamodel.Room{FloorID: first.ID, Name: "Computer Lab 1", RoomType: "lab", Capacity: 30}
		meeting := facilityDatamodel.Room{FloorID: first.ID, Name: "Meeting Room A", RoomType: "meeting", Capacity: 12}
		if err := tx.Create(&[]*facilityDatamodel.Room{&storeRoom, &lab, &meeting}).Error; err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}

		ram := "RAM"
		items := []inventoryDatamodel.StorageItem{
			{
				Name:          "DDR4 8GB",
				ItemType:      "component",
				SubType:       &ram,
				Quantity:      3,
				Unit:          "pcs",
				SerialNumbers: inventoryDatamodel.SerialNumbers{"RAM-0001", "RAM-0002", "RAM-0003"},
			},
			{Name: "HDMI Cable 2m", ItemType: "cable", Quantity: 25, Unit: "pcs", SerialNumbers: inventoryDatamodel.SerialNumbers{}},
			{Name: "Whiteboard Marker", ItemType: "consumable", Quantity: 60, Unit: "pcs", SerialNumbers: inventoryDatamodel.SerialNumbers{}},
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("seed storage items: %w", err)
		}

		projectorSerial := "PJ-88213"
		assets := []inventoryDatamodel.Asset{
			{Tag: "AST-0001", Name: "Projector", AssetType: "av", SerialNumber: &projectorSerial, RoomID: meeting.ID},
			{Tag: "AST-0002", Name: "Lab Workstation 01", AssetType: "computer", RoomID: lab.ID},
		}
		if err := tx.Create(&assets).Error; err != nil {
			return fmt.Errorf("seed assets: %w", err)
		}

		fmt.Println("Seeded sample building, floors, rooms, storage items and assets")
		return nil
	})
}
