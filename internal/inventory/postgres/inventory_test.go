package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/facility-management/internal"
	deploymentDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/deployment"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/facility-management/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/facility-management/internal/inventory/postgres"
	"github.com/frahmantamala/facility-management/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestInventoryPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Postgres Suite")
}

var _ = Describe("Inventory PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo inventory.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())

		repo = inventoryPostgres.NewInventoryRepository(db)
		ctx = context.Background()
	})

	It("should persist serial numbers as a JSON list", func() {
		gpu := "GPU"
		item := &inventoryDatamodel.StorageItem{Name: "RTX", ItemType: "component", SubType: &gpu, Quantity: 2, SerialNumbers: inventoryDatamodel.SerialNumbers{"G1", "G2"}}
		Expect(repo.CreateStorageItem(ctx, item)).To(Succeed())

		var raw string
		Expect(db.Raw("SELECT serial_numbers FROM storage_items WHERE id = ?", item.ID).Scan(&raw).Error).To(Succeed())
		Expect(raw).To(Equal(`["G1","G2"]`))

		loaded, err := repo.GetStorageItemByID(ctx, item.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect([]string(loaded.SerialNumbers)).To(Equal([]string{"G1", "G2"}))
	})

	It("should store an empty list for items without serials", func() {
		item := &inventoryDatamodel.StorageItem{Name: "Tape", ItemType: "supply", Quantity: 5}
		Expect(repo.CreateStorageItem(ctx, item)).To(Succeed())

		loaded, err := repo.GetStorageItemByID(ctx, item.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.SerialNumbers).To(BeEmpty())
	})

	It("should filter storage items", func() {
		ram := "RAM"
		Expect(repo.CreateStorageItem(ctx, &inventoryDatamodel.StorageItem{Name: "DDR4", ItemType: "component", SubType: &ram})).To(Succeed())
		Expect(repo.CreateStorageItem(ctx, &inventoryDatamodel.StorageItem{Name: "Stapler", ItemType: "office"})).To(Succeed())

		items, err := repo.ListStorageItems(ctx, inventory.StorageItemFilter{SubType: "ram"})
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))

		items, err = repo.ListStorageItems(ctx, inventory.StorageItemFilter{Search: "STAP"})
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].Name).To(Equal("Stapler"))
	})

	Describe("guarded deletes", func() {
		It("should refuse to delete a storage item referenced by the ledger", func() {
			item := &inventoryDatamodel.StorageItem{Name: "Mouse", ItemType: "peripheral", Quantity: 1}
			Expect(repo.CreateStorageItem(ctx, item)).To(Succeed())
			Expect(db.Create(&deploymentDatamodel.DeploymentRecord{StorageItemID: &item.ID, Quantity: 1, ToRoomID: 1, DeployedAt: time.Now(), DeployedBy: 1}).Error).To(Succeed())

			Expect(repo.DeleteStorageItem(ctx, item.ID)).To(MatchError(internal.ErrHasDeploymentHistory))
			_, err := repo.GetStorageItemByID(ctx, item.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should delete unreferenced assets and report missing ones", func() {
			asset := &inventoryDatamodel.Asset{Tag: "PC-1", Name: "PC", RoomID: 1}
			Expect(repo.CreateAsset(ctx, asset)).To(Succeed())

			Expect(repo.DeleteAsset(ctx, asset.ID)).To(Succeed())
			Expect(repo.DeleteAsset(ctx, asset.ID)).To(MatchError(internal.ErrAssetNotFound))
		})

		It("should refuse to delete an asset referenced by the ledger", func() {
			asset := &inventoryDatamodel.Asset{Tag: "PC-2", Name: "PC", RoomID: 1}
			Expect(repo.CreateAsset(ctx, asset)).To(Succeed())
			Expect(db.Create(&deploymentDatamodel.DeploymentRecord{AssetID: &asset.ID, Quantity: 1, ToRoomID: 2, DeployedAt: time.Now(), DeployedBy: 1}).Error).To(Succeed())

			Expect(repo.DeleteAsset(ctx, asset.ID)).To(MatchError(internal.ErrHasDeploymentHistory))
		})
	})

	It("should look assets up by tag", func() {
		Expect(repo.CreateAsset(ctx, &inventoryDatamodel.Asset{Tag: "PRJ-1", Name: "Projector", RoomID: 3})).To(Succeed())

		found, err := repo.GetAssetByTag(ctx, "PRJ-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).NotTo(BeNil())

		missing, err := repo.GetAssetByTag(ctx, "nope")
		Expect(err).NotTo(HaveOccurred())
		Expect(missing).To(BeNil())
	})
})
