package inventory

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/facility-management/internal"
	inventoryDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/facility-management/internal/facility"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

func TestInventory(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Inventory Module Suite")
}

type mockRepository struct {
	items  map[int64]*inventoryDatamodel.StorageItem
	assets map[int64]*inventoryDatamodel.Asset
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		items:  map[int64]*inventoryDatamodel.StorageItem{},
		assets: map[int64]*inventoryDatamodel.Asset{},
		nextID: 1,
	}
}

func (m *mockRepository) ListStorageItems(_ context.Context, _ StorageItemFilter) ([]*inventoryDatamodel.StorageItem, error) {
	out := make([]*inventoryDatamodel.StorageItem, 0, len(m.items))
	for id := int64(1); id < m.nextID; id++ {
		if item, ok := m.items[id]; ok {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepository) GetStorageItemByID(_ context.Context, id int64) (*inventoryDatamodel.StorageItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, internal.ErrStorageItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockRepository) CreateStorageItem(_ context.Context, item *inventoryDatamodel.StorageItem) error {
	item.ID = m.nextID
	m.nextID++
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockRepository) UpdateStorageItem(_ context.Context, item *inventoryDatamodel.StorageItem) error {
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockRepository) DeleteStorageItem(_ context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepository) ListAssets(_ context.Context, _ AssetFilter) ([]*inventoryDatamodel.Asset, error) {
	out := make([]*inventoryDatamodel.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockRepository) GetAssetByID(_ context.Context, id int64) (*inventoryDatamodel.Asset, error) {
	a, ok := m.assets[id]
	if !ok {
		return nil, internal.ErrAssetNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepository) GetAssetByTag(_ context.Context, tag string) (*inventoryDatamodel.Asset, error) {
	for _, a := range m.assets {
		if a.Tag == tag {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) CreateAsset(_ context.Context, asset *inventoryDatamodel.Asset) error {
	asset.ID = m.nextID
	m.nextID++
	cp := *asset
	m.assets[asset.ID] = &cp
	return nil
}

func (m *mockRepository) UpdateAsset(_ context.Context, asset *inventoryDatamodel.Asset) error {
	cp := *asset
	m.assets[asset.ID] = &cp
	return nil
}

func (m *mockRepository) DeleteAsset(_ context.Context, id int64) error {
	delete(m.assets, id)
	return nil
}

type stubRooms map[int64]bool

func (s stubRooms) GetRoom(_ context.Context, id int64) (*facility.Room, error) {
	if s[id] {
		return &facility.Room{ID: id}, nil
	}
	return nil, internal.ErrRoomNotFound
}

type stubHistory struct {
	items  map[int64]bool
	assets map[int64]bool
}

func (s stubHistory) HasStorageItemHistory(_ context.Context, id int64) (bool, error) {
	return s.items[id], nil
}

func (s stubHistory) HasAssetHistory(_ context.Context, id int64) (bool, error) {
	return s.assets[id], nil
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

var _ = ginkgo.Describe("IsSerializedSubType", func() {
	ginkgo.DescribeTable("classification",
		func(subType string, want bool) {
			gomega.Expect(IsSerializedSubType(subType)).To(gomega.Equal(want))
		},
		ginkgo.Entry("cpu", "CPU", true),
		ginkgo.Entry("lower case ram", "ram", true),
		ginkgo.Entry("padded motherboard", " Motherboard ", true),
		ginkgo.Entry("cable", "CABLE", false),
		ginkgo.Entry("empty", "", false),
	)
})

var _ = ginkgo.Describe("Inventory Service", func() {
	var (
		repo    *mockRepository
		history stubHistory
		service *Service
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		history = stubHistory{items: map[int64]bool{}, assets: map[int64]bool{}}
		service = NewService(repo, stubRooms{1: true, 2: true}, history, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	ginkgo.Describe("CreateStorageItem", func() {
		ginkgo.It("should create fungible stock without serials", func() {
			item, err := service.CreateStorageItem(ctx, CreateStorageItemDTO{Name: "Cat6 cable", ItemType: "network", Quantity: 50, Unit: "pcs"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(item.ID).To(gomega.Equal(int64(1)))
			gomega.Expect(item.IsSerialized()).To(gomega.BeFalse())
		})

		ginkgo.It("should require a serial per unit for serialized sub-types", func() {
			_, err := service.CreateStorageItem(ctx, CreateStorageItemDTO{
				Name: "DDR4 16GB", ItemType: "component", SubType: strPtr("ram"), Quantity: 3,
				SerialNumbers: []string{"R1", "R2"},
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotEnoughSerials))
		})

		ginkgo.It("should normalise the serialized sub-type and drop blank serials", func() {
			item, err := service.CreateStorageItem(ctx, CreateStorageItemDTO{
				Name: "DDR4 16GB", ItemType: "component", SubType: strPtr("ram"), Quantity: 2,
				SerialNumbers: []string{"R1", " ", "R2"},
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(*item.SubType).To(gomega.Equal(SubTypeRAM))
			gomega.Expect(item.SerialNumbers).To(gomega.Equal([]string{"R1", "R2"}))
		})

		ginkgo.It("should reject negative quantities", func() {
			_, err := service.CreateStorageItem(ctx, CreateStorageItemDTO{Name: "x", ItemType: "y", Quantity: -1})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("UpdateStorageItem", func() {
		var itemID int64

		ginkgo.BeforeEach(func() {
			item, err := service.CreateStorageItem(ctx, CreateStorageItemDTO{Name: "Mouse", ItemType: "peripheral", Quantity: 10})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			itemID = item.ID
		})

		ginkgo.It("should restock", func() {
			item, err := service.UpdateStorageItem(ctx, itemID, UpdateStorageItemDTO{Quantity: intPtr(15)})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(item.Quantity).To(gomega.Equal(15))
		})

		ginkgo.It("should refuse to lower quantity", func() {
			_, err := service.UpdateStorageItem(ctx, itemID, UpdateStorageItemDTO{Quantity: intPtr(9)})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrQuantityDecrease))

			item, err := service.GetStorageItem(ctx, itemID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(item.Quantity).To(gomega.Equal(10))
		})

		ginkgo.It("should re-check serials when switching to a serialized sub-type", func() {
			_, err := service.UpdateStorageItem(ctx, itemID, UpdateStorageItemDTO{SubType: strPtr("SSD")})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotEnoughSerials))
		})

		ginkgo.It("should report missing items", func() {
			_, err := service.UpdateStorageItem(ctx, 999, UpdateStorageItemDTO{Name: strPtr("x")})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrStorageItemNotFound))
		})
	})

	ginkgo.Describe("DeleteStorageItem", func() {
		ginkgo.It("should be blocked by ledger history", func() {
			item, err := service.CreateStorageItem(ctx, CreateStorageItemDTO{Name: "Mouse", ItemType: "peripheral", Quantity: 1})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			history.items[item.ID] = true

			gomega.Expect(service.DeleteStorageItem(ctx, item.ID)).To(gomega.MatchError(internal.ErrHasDeploymentHistory))
			_, err = service.GetStorageItem(ctx, item.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("should delete items without history", func() {
			item, err := service.CreateStorageItem(ctx, CreateStorageItemDTO{Name: "Mouse", ItemType: "peripheral", Quantity: 1})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(service.DeleteStorageItem(ctx, item.ID)).To(gomega.Succeed())
			_, err = service.GetStorageItem(ctx, item.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrStorageItemNotFound))
		})
	})

	ginkgo.Describe("Assets", func() {
		ginkgo.It("should require an existing room", func() {
			_, err := service.CreateAsset(ctx, CreateAssetDTO{Tag: "PC-1", Name: "Workstation", RoomID: 9})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoomNotFound))
		})

		ginkgo.It("should reject duplicate tags", func() {
			_, err := service.CreateAsset(ctx, CreateAssetDTO{Tag: "PC-1", Name: "Workstation", RoomID: 1})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.CreateAsset(ctx, CreateAssetDTO{Tag: "PC-1", Name: "Other", RoomID: 2})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrDuplicate))
		})

		ginkgo.It("should keep the room on update", func() {
			asset, err := service.CreateAsset(ctx, CreateAssetDTO{Tag: "PC-1", Name: "Workstation", RoomID: 1})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			updated, err := service.UpdateAsset(ctx, asset.ID, UpdateAssetDTO{Name: strPtr("Renamed")})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.Name).To(gomega.Equal("Renamed"))
			gomega.Expect(updated.RoomID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should block deleting assets with history", func() {
			asset, err := service.CreateAsset(ctx, CreateAssetDTO{Tag: "PC-1", Name: "Workstation", RoomID: 1})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			history.assets[asset.ID] = true

			gomega.Expect(service.DeleteAsset(ctx, asset.ID)).To(gomega.MatchError(internal.ErrHasDeploymentHistory))
		})
	})

	ginkgo.Describe("ExportStorageItems", func() {
		ginkgo.It("should render a header row and one row per item", func() {
			_, err := service.CreateStorageItem(ctx, CreateStorageItemDTO{Name: "Mouse", ItemType: "peripheral", Quantity: 4, Unit: "pcs"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = service.CreateStorageItem(ctx, CreateStorageItemDTO{
				Name: "i7", ItemType: "component", SubType: strPtr("CPU"), Quantity: 2, SerialNumbers: []string{"C1", "C2"},
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			data, err := service.ExportStorageItems(ctx, StorageItemFilter{})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			f, err := excelize.OpenReader(bytes.NewReader(data))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			defer f.Close()

			rows, err := f.GetRows(exportSheet)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(3))
			gomega.Expect(rows[0][1]).To(gomega.Equal("Name"))
			gomega.Expect(rows[1][1]).To(gomega.Equal("Mouse"))
			gomega.Expect(rows[2][3]).To(gomega.Equal("CPU"))
			gomega.Expect(rows[2][6]).To(gomega.Equal("C1, C2"))
		})
	})
})
