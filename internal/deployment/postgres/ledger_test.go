package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/facility-management/internal/deployment"
	deploymentPostgres "github.com/frahmantamala/facility-management/internal/deployment/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var ledgerColumns = []string{
	"id", "storage_item_id", "storage_item_name",
	"asset_id", "asset_tag", "asset_name",
	"quantity", "serial_number",
	"from_room_id", "from_room_name",
	"to_room_id", "to_room_name",
	"deployed_at", "deployed_by", "deployed_by_name",
	"remarks",
}

var _ = Describe("LedgerRepository", func() {
	var (
		db   *sql.DB
		mock sqlmock.Sqlmock
		repo *deploymentPostgres.LedgerRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, mock, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())

		repo = deploymentPostgres.NewLedgerRepository(sqlx.NewDb(db, "postgres"))
		ctx = context.Background()
	})

	AfterEach(func() {
		mock.ExpectClose()
		Expect(db.Close()).To(Succeed())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("should join names and bind postgres placeholders", func() {
		at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM deployment_records d WHERE d.storage_item_id = $1")).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u ON u.id = d.deployed_by WHERE d.storage_item_id = $1 ORDER BY d.deployed_at DESC, d.id DESC LIMIT $2")).
			WithArgs(int64(4), 20).
			WillReturnRows(sqlmock.NewRows(ledgerColumns).AddRow(
				7, 4, "SSD 1TB",
				nil, nil, nil,
				1, "S-1",
				nil, nil,
				3, "Lab 3",
				at, 42, "Tech",
				"install",
			))

		entries, total, err := repo.ListDeployments(ctx, deployment.LedgerFilter{StorageItemID: 4, Limit: 20})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
		Expect(entries).To(HaveLen(1))

		entry := entries[0]
		Expect(entry.ID).To(Equal(int64(7)))
		Expect(*entry.StorageItemName).To(Equal("SSD 1TB"))
		Expect(entry.AssetID).To(BeNil())
		Expect(*entry.ToRoomName).To(Equal("Lab 3"))
		Expect(*entry.DeployedByName).To(Equal("Tech"))
		Expect(entry.DeployedAt).To(Equal(at))
	})

	It("should match either side of a move when filtering by room", func() {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE (d.to_room_id = $1 OR d.from_room_id = $2) AND d.deployed_by = $3")).
			WithArgs(int64(3), int64(3), int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY d.deployed_at DESC, d.id DESC OFFSET $4")).
			WithArgs(int64(3), int64(3), int64(42), 40).
			WillReturnRows(sqlmock.NewRows(ledgerColumns))

		entries, total, err := repo.ListDeployments(ctx, deployment.LedgerFilter{RoomID: 3, DeployedBy: 42, Offset: 40})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(BeZero())
		Expect(entries).To(BeEmpty())
	})

	It("should wrap query errors", func() {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM deployment_records d")).
			WillReturnError(context.DeadlineExceeded)

		_, _, err := repo.ListDeployments(ctx, deployment.LedgerFilter{})
		Expect(err).To(MatchError(ContainSubstring("count deployments")))
	})
})
