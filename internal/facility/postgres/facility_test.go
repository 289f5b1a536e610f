package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/facility-management/internal"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	scheduleDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/schedule"
	"github.com/frahmantamala/facility-management/internal/facility"
	facilityPostgres "github.com/frahmantamala/facility-management/internal/facility/postgres"
	"github.com/frahmantamala/facility-management/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestFacilityPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Facility Postgres Suite")
}

var _ = Describe("Facility repository and service", func() {
	var (
		db      *gorm.DB
		service *facility.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())

		service = facility.NewService(facilityPostgres.NewFacilityRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	createTree := func() (*facility.Building, *facility.Floor, *facility.Room) {
		building, err := service.CreateBuilding(ctx, facility.CreateBuildingDTO{Name: "Science Hall", Code: "SCI"})
		Expect(err).NotTo(HaveOccurred())
		floor, err := service.CreateFloor(ctx, facility.CreateFloorDTO{BuildingID: building.ID, Name: "Ground", Level: 0})
		Expect(err).NotTo(HaveOccurred())
		room, err := service.CreateRoom(ctx, facility.CreateRoomDTO{FloorID: floor.ID, Name: "Lab 1", RoomType: "lab", Capacity: 30})
		Expect(err).NotTo(HaveOccurred())
		return building, floor, room
	}

	Describe("Buildings", func() {
		It("should create and list buildings", func() {
			_, err := service.CreateBuilding(ctx, facility.CreateBuildingDTO{Name: "Library"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateBuilding(ctx, facility.CreateBuildingDTO{Name: "Annex"})
			Expect(err).NotTo(HaveOccurred())

			buildings, err := service.ListBuildings(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(buildings).To(HaveLen(2))
			Expect(buildings[0].Name).To(Equal("Annex"))
		})

		It("should reject duplicate names", func() {
			_, err := service.CreateBuilding(ctx, facility.CreateBuildingDTO{Name: "Library"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateBuilding(ctx, facility.CreateBuildingDTO{Name: "Library"})
			Expect(err).To(MatchError(internal.ErrDuplicate))
		})

		It("should reject a missing name", func() {
			_, err := service.CreateBuilding(ctx, facility.CreateBuildingDTO{Name: "  "})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should update only the provided fields", func() {
			building, err := service.CreateBuilding(ctx, facility.CreateBuildingDTO{Name: "Library", Address: "1 Main St"})
			Expect(err).NotTo(HaveOccurred())

			code := "LIB"
			updated, err := service.UpdateBuilding(ctx, building.ID, facility.UpdateBuildingDTO{Code: &code})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Code).To(Equal("LIB"))
			Expect(updated.Address).To(Equal("1 Main St"))
		})

		It("should block deletion while floors exist", func() {
			building, floor, room := createTree()

			Expect(service.DeleteBuilding(ctx, building.ID)).To(MatchError(internal.ErrHasChildren))
			Expect(service.DeleteRoom(ctx, room.ID)).To(Succeed())
			Expect(service.DeleteFloor(ctx, floor.ID)).To(Succeed())
			Expect(service.DeleteBuilding(ctx, building.ID)).To(Succeed())

			_, err := service.GetBuilding(ctx, building.ID)
			Expect(err).To(MatchError(internal.ErrBuildingNotFound))
		})

		It("should report missing buildings on delete", func() {
			Expect(service.DeleteBuilding(ctx, 404)).To(MatchError(internal.ErrBuildingNotFound))
		})
	})

	Describe("Floors", func() {
		It("should require an existing building", func() {
			_, err := service.CreateFloor(ctx, facility.CreateFloorDTO{BuildingID: 99, Name: "Roof"})
			Expect(err).To(MatchError(internal.ErrBuildingNotFound))
		})

		It("should list floors by level", func() {
			building, err := service.CreateBuilding(ctx, facility.CreateBuildingDTO{Name: "Tower"})
			Expect(err).NotTo(HaveOccurred())
			for _, level := range []int{3, 1, 2} {
				_, err := service.CreateFloor(ctx, facility.CreateFloorDTO{BuildingID: building.ID, Name: "F", Level: level})
				Expect(err).NotTo(HaveOccurred())
			}

			floors, err := service.ListFloors(ctx, building.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(floors).To(HaveLen(3))
			Expect(floors[0].Level).To(Equal(1))
			Expect(floors[2].Level).To(Equal(3))
		})

		It("should block deletion while rooms exist", func() {
			_, floor, _ := createTree()
			Expect(service.DeleteFloor(ctx, floor.ID)).To(MatchError(internal.ErrHasChildren))
		})
	})

	Describe("Rooms", func() {
		It("should require an existing floor", func() {
			_, err := service.CreateRoom(ctx, facility.CreateRoomDTO{FloorID: 99, Name: "Ghost"})
			Expect(err).To(MatchError(internal.ErrFloorNotFound))
		})

		It("should filter rooms by floor", func() {
			building, floor, _ := createTree()
			other, err := service.CreateFloor(ctx, facility.CreateFloorDTO{BuildingID: building.ID, Name: "First", Level: 1})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateRoom(ctx, facility.CreateRoomDTO{FloorID: other.ID, Name: "Office"})
			Expect(err).NotTo(HaveOccurred())

			onFloor, err := service.ListRooms(ctx, floor.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(onFloor).To(HaveLen(1))

			all, err := service.ListRooms(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})

		It("should block deletion while an asset is located in the room", func() {
			_, _, room := createTree()
			Expect(db.Create(&inventoryDatamodel.Asset{Tag: "PC-1", Name: "Workstation", RoomID: room.ID}).Error).To(Succeed())

			err := service.DeleteRoom(ctx, room.ID)
			Expect(err).To(MatchError(internal.ErrHasChildren))
			Expect(err.Error()).To(ContainSubstring("1 asset(s)"))
		})

		It("should block deletion while schedules reference the room", func() {
			_, _, room := createTree()
			Expect(db.Create(&scheduleDatamodel.Schedule{RoomID: room.ID, UserID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}).Error).To(Succeed())

			Expect(service.DeleteRoom(ctx, room.ID)).To(MatchError(internal.ErrHasChildren))
		})

		It("should reject a negative capacity on update", func() {
			_, _, room := createTree()
			capacity := -1
			_, err := service.UpdateRoom(ctx, room.ID, facility.UpdateRoomDTO{Capacity: &capacity})
			Expect(err).To(HaveOccurred())
		})
	})
})
