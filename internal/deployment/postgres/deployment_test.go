package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/frahmantamala/facility-management/internal"
	deploymentDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/deployment"
	facilityDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/facility"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/facility-management/internal/deployment"
	deploymentPostgres "github.com/frahmantamala/facility-management/internal/deployment/postgres"
	"github.com/frahmantamala/facility-management/internal/facility"
	facilityPostgres "github.com/frahmantamala/facility-management/internal/facility/postgres"
	"github.com/frahmantamala/facility-management/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Deployment transaction", func() {
	var (
		db      *gorm.DB
		service *deployment.Service
		ctx     context.Context
		roomA   int64
		roomB   int64
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		facilities := facility.NewService(facilityPostgres.NewFacilityRepository(db), lg)
		service = deployment.NewService(deploymentPostgres.NewDeploymentRepository(db), nil, facilities, nil, lg)
		ctx = context.Background()

		building := facilityDatamodel.Building{Name: "Main"}
		Expect(db.Create(&building).Error).To(Succeed())
		floor := facilityDatamodel.Floor{BuildingID: building.ID, Name: "G"}
		Expect(db.Create(&floor).Error).To(Succeed())
		a := facilityDatamodel.Room{FloorID: floor.ID, Name: "A"}
		b := facilityDatamodel.Room{FloorID: floor.ID, Name: "B"}
		Expect(db.Create(&a).Error).To(Succeed())
		Expect(db.Create(&b).Error).To(Succeed())
		roomA, roomB = a.ID, b.ID
	})

	createItem := func(quantity int, subType *string, serials ...string) int64 {
		item := inventoryDatamodel.StorageItem{Name: "item", ItemType: "component", SubType: subType, Quantity: quantity, SerialNumbers: serials}
		Expect(db.Create(&item).Error).To(Succeed())
		return item.ID
	}

	loadItem := func(id int64) inventoryDatamodel.StorageItem {
		var item inventoryDatamodel.StorageItem
		Expect(db.First(&item, id).Error).To(Succeed())
		return item
	}

	countRecords := func() int64 {
		var n int64
		Expect(db.Model(&deploymentDatamodel.DeploymentRecord{}).Count(&n).Error).To(Succeed())
		return n
	}

	idPtr := func(id int64) *int64 { return &id }
	strPtr := func(s string) *string { return &s }

	Describe("storage items", func() {
		It("should deduct the quantity and write one ledger row", func() {
			itemID := createItem(10, nil)

			dep, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 3, DestinationRoomID: roomA, Remarks: "setup"}, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(dep.ID).To(BeNumerically(">", 0))
			Expect(dep.FromRoomID).To(BeNil())
			Expect(dep.DeployedBy).To(Equal(int64(42)))

			Expect(loadItem(itemID).Quantity).To(Equal(7))
			Expect(countRecords()).To(Equal(int64(1)))

			var record deploymentDatamodel.DeploymentRecord
			Expect(db.First(&record).Error).To(Succeed())
			Expect(*record.StorageItemID).To(Equal(itemID))
			Expect(record.Quantity).To(Equal(3))
			Expect(record.ToRoomID).To(Equal(roomA))
			Expect(record.Remarks).To(Equal("setup"))
		})

		It("should refuse to overdraw and leave stock untouched", func() {
			itemID := createItem(10, nil)

			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 11, DestinationRoomID: roomA}, 42)
			Expect(err).To(MatchError(internal.ErrInsufficientQuantity))

			Expect(loadItem(itemID).Quantity).To(Equal(10))
			Expect(countRecords()).To(BeZero())
		})

		It("should allow draining the stock to zero", func() {
			itemID := createItem(4, nil)

			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 4, DestinationRoomID: roomA}, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(loadItem(itemID).Quantity).To(BeZero())
		})

		It("should record a trimmed serial supplied for fungible stock", func() {
			itemID := createItem(5, nil, "C1")

			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 1, SerialNumber: strPtr(" C1 "), DestinationRoomID: roomA}, 42)
			Expect(err).NotTo(HaveOccurred())

			var record deploymentDatamodel.DeploymentRecord
			Expect(db.First(&record).Error).To(Succeed())
			Expect(record.SerialNumber).NotTo(BeNil())
			Expect(*record.SerialNumber).To(Equal("C1"))

			item := loadItem(itemID)
			Expect(item.Quantity).To(Equal(4))
			Expect([]string(item.SerialNumbers)).To(Equal([]string{"C1"}))
		})

		It("should reject a zero quantity without writing anything", func() {
			itemID := createItem(5, nil)

			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 0, DestinationRoomID: roomA}, 42)
			Expect(err).To(MatchError(internal.ErrInvalidQuantity))
			Expect(loadItem(itemID).Quantity).To(Equal(5))
			Expect(countRecords()).To(BeZero())
		})

		It("should report unknown items", func() {
			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(999), Quantity: 1, DestinationRoomID: roomA}, 42)
			Expect(err).To(MatchError(internal.ErrStorageItemNotFound))
		})

		It("should report unknown destination rooms", func() {
			itemID := createItem(10, nil)

			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 1, DestinationRoomID: 999}, 42)
			Expect(err).To(MatchError(internal.ErrRoomNotFound))
			Expect(loadItem(itemID).Quantity).To(Equal(10))
		})
	})

	Describe("serialized storage items", func() {
		var itemID int64

		BeforeEach(func() {
			itemID = createItem(3, strPtr("GPU"), "G1", "G2", "G3")
		})

		It("should remove the deployed serial and record it", func() {
			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 1, SerialNumber: strPtr(" G2 "), DestinationRoomID: roomB}, 42)
			Expect(err).NotTo(HaveOccurred())

			item := loadItem(itemID)
			Expect(item.Quantity).To(Equal(2))
			Expect([]string(item.SerialNumbers)).To(Equal([]string{"G1", "G3"}))

			var record deploymentDatamodel.DeploymentRecord
			Expect(db.First(&record).Error).To(Succeed())
			Expect(*record.SerialNumber).To(Equal("G2"))
		})

		It("should leave serials and quantity unchanged for an unknown serial", func() {
			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 1, SerialNumber: strPtr("G9"), DestinationRoomID: roomB}, 42)
			Expect(err).To(MatchError(internal.ErrInvalidSerialNumber))

			item := loadItem(itemID)
			Expect(item.Quantity).To(Equal(3))
			Expect([]string(item.SerialNumbers)).To(Equal([]string{"G1", "G2", "G3"}))
			Expect(countRecords()).To(BeZero())
		})

		It("should refuse more than one unit per serial", func() {
			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 2, SerialNumber: strPtr("G1"), DestinationRoomID: roomB}, 42)
			Expect(err).To(MatchError(internal.ErrSerialQuantityMismatch))
			Expect(loadItem(itemID).Quantity).To(Equal(3))
		})

		It("should require a serial number", func() {
			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 1, DestinationRoomID: roomB}, 42)
			Expect(err).To(MatchError(internal.ErrSerialNumberRequired))
		})
	})

	Describe("assets", func() {
		var assetID int64

		BeforeEach(func() {
			serial := "SN-100"
			asset := inventoryDatamodel.Asset{Tag: "PC-1", Name: "Workstation", SerialNumber: &serial, RoomID: roomA}
			Expect(db.Create(&asset).Error).To(Succeed())
			assetID = asset.ID
		})

		It("should move the asset and record the previous room", func() {
			dep, err := service.Deploy(ctx, deployment.DeployDTO{AssetID: idPtr(assetID), DestinationRoomID: roomB}, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(dep.Quantity).To(Equal(1))
			Expect(*dep.FromRoomID).To(Equal(roomA))
			Expect(dep.ToRoomID).To(Equal(roomB))
			Expect(*dep.SerialNumber).To(Equal("SN-100"))

			var asset inventoryDatamodel.Asset
			Expect(db.First(&asset, assetID).Error).To(Succeed())
			Expect(asset.RoomID).To(Equal(roomB))
			Expect(countRecords()).To(Equal(int64(1)))
		})

		It("should reject moving an asset into the room it occupies", func() {
			_, err := service.Deploy(ctx, deployment.DeployDTO{AssetID: idPtr(assetID), DestinationRoomID: roomA}, 42)
			Expect(err).To(MatchError(internal.ErrAssetAlreadyInRoom))
			Expect(countRecords()).To(BeZero())
		})

		It("should report unknown assets", func() {
			_, err := service.Deploy(ctx, deployment.DeployDTO{AssetID: idPtr(999), DestinationRoomID: roomB}, 42)
			Expect(err).To(MatchError(internal.ErrAssetNotFound))
		})

		It("should expose ledger history for delete guards", func() {
			used, err := service.HasAssetHistory(ctx, assetID)
			Expect(err).NotTo(HaveOccurred())
			Expect(used).To(BeFalse())

			_, err = service.Deploy(ctx, deployment.DeployDTO{AssetID: idPtr(assetID), DestinationRoomID: roomB}, 42)
			Expect(err).NotTo(HaveOccurred())

			used, err = service.HasAssetHistory(ctx, assetID)
			Expect(err).NotTo(HaveOccurred())
			Expect(used).To(BeTrue())
		})
	})

	Describe("concurrency", func() {
		It("should fail the conditional decrement when stock drains after the locked read", func() {
			itemID := createItem(10, nil)

			// Another writer takes 8 units between the locked read and the decrement.
			drained := false
			Expect(db.Callback().Update().Before("gorm:update").Register("test:drain_stock", func(tx *gorm.DB) {
				if drained || tx.Statement.Table != "storage_items" {
					return
				}
				drained = true
				_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context, "UPDATE storage_items SET quantity = 2 WHERE id = ?", itemID)
				Expect(err).NotTo(HaveOccurred())
			})).To(Succeed())

			_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 6, DestinationRoomID: roomA}, 42)
			Expect(drained).To(BeTrue())
			Expect(err).To(MatchError(internal.ErrInsufficientQuantity))
			Expect(countRecords()).To(BeZero())
			Expect(loadItem(itemID).Quantity).To(Equal(10))
		})

		It("should let exactly one of two overlapping withdrawals succeed", func() {
			itemID := createItem(10, nil)

			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				results []error
			)
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := service.Deploy(ctx, deployment.DeployDTO{StorageItemID: idPtr(itemID), Quantity: 6, DestinationRoomID: roomA}, 42)
					mu.Lock()
					results = append(results, err)
					mu.Unlock()
				}()
			}
			wg.Wait()

			var succeeded, rejected int
			for _, err := range results {
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, internal.ErrInsufficientQuantity):
					rejected++
				}
			}
			Expect(succeeded).To(Equal(1))
			Expect(rejected).To(Equal(1))
			Expect(loadItem(itemID).Quantity).To(Equal(4))
			Expect(countRecords()).To(Equal(int64(1)))
		})
	})
})
