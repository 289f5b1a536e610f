package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/facility-management/internal"
	ticketDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/ticket"
	userDatamodel "github.com/frahmantamala/facility-management/internal/core/datamodel/user"
	"github.com/frahmantamala/facility-management/internal/testutil"
	"github.com/frahmantamala/facility-management/internal/ticket"
	ticketPostgres "github.com/frahmantamala/facility-management/internal/ticket/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestTicketPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ticket Postgres Suite")
}

var _ = Describe("Ticket PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo ticket.RepositoryAPI
		ctx  context.Context
	)

	newTicket := func(reporterID int64, status ticket.Status) *ticketDatamodel.Ticket {
		t := &ticketDatamodel.Ticket{
			Title:      "Broken chair",
			Type:       ticket.TypeRepair,
			Status:     string(status),
			Priority:   ticket.PriorityLow,
			ReporterID: reporterID,
		}
		Expect(repo.Create(ctx, t)).To(Succeed())
		return t
	}

	BeforeEach(func() {
		var err error
		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())

		repo = ticketPostgres.NewTicketRepository(db)
		ctx = context.Background()
	})

	It("should return the not found sentinel", func() {
		_, err := repo.GetByID(ctx, 404)
		Expect(err).To(MatchError(internal.ErrTicketNotFound))
	})

	It("should filter by reporter and status", func() {
		newTicket(1, ticket.StatusOpen)
		newTicket(1, ticket.StatusClosed)
		newTicket(2, ticket.StatusOpen)

		rows, err := repo.List(ctx, ticket.Filter{ReporterID: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))

		rows, err = repo.List(ctx, ticket.Filter{Status: string(ticket.StatusOpen)})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))

		rows, err = repo.List(ctx, ticket.Filter{Limit: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})

	It("should only update the status from the expected state", func() {
		row := newTicket(1, ticket.StatusInProgress)
		now := time.Now().UTC()

		row.Status = string(ticket.StatusResolved)
		row.ResolvedAt = &now
		Expect(repo.UpdateStatus(ctx, row, ticket.StatusInProgress)).To(Succeed())

		loaded, err := repo.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Status).To(Equal(string(ticket.StatusResolved)))
		Expect(loaded.ResolvedAt).NotTo(BeNil())

		row.Status = string(ticket.StatusClosed)
		err = repo.UpdateStatus(ctx, row, ticket.StatusInProgress)
		Expect(err).To(MatchError(internal.ErrConcurrentUpdate))
	})

	It("should clear lifecycle timestamps on reopen", func() {
		row := newTicket(1, ticket.StatusClosed)
		now := time.Now().UTC()
		row.ClosedAt = &now
		Expect(repo.Update(ctx, row)).To(Succeed())

		row.Status = string(ticket.StatusOpen)
		row.ClosedAt = nil
		Expect(repo.UpdateStatus(ctx, row, ticket.StatusClosed)).To(Succeed())

		loaded, err := repo.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.ClosedAt).To(BeNil())
	})

	It("should filter private comments", func() {
		row := newTicket(1, ticket.StatusOpen)
		Expect(repo.CreateComment(ctx, &ticketDatamodel.TicketComment{TicketID: row.ID, AuthorID: 1, Body: "public"})).To(Succeed())
		Expect(repo.CreateComment(ctx, &ticketDatamodel.TicketComment{TicketID: row.ID, AuthorID: 3, Body: "internal", IsPrivate: true})).To(Succeed())

		public, err := repo.ListComments(ctx, row.ID, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(public).To(HaveLen(1))
		Expect(public[0].Body).To(Equal("public"))

		all, err := repo.ListComments(ctx, row.ID, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
	})

	It("should delete comments with the ticket", func() {
		row := newTicket(1, ticket.StatusOpen)
		Expect(repo.CreateComment(ctx, &ticketDatamodel.TicketComment{TicketID: row.ID, AuthorID: 1, Body: "x"})).To(Succeed())

		Expect(repo.Delete(ctx, row.ID)).To(Succeed())

		var count int64
		Expect(db.Model(&ticketDatamodel.TicketComment{}).Where("ticket_id = ?", row.ID).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())

		Expect(repo.Delete(ctx, row.ID)).To(MatchError(internal.ErrTicketNotFound))
	})

	It("should report whether a user exists", func() {
		user := &userDatamodel.User{ExternalID: "ext-1", Email: "a@example.com", Name: "A", Role: "member", IsActive: true}
		Expect(db.Create(user).Error).To(Succeed())

		exists, err := repo.UserExists(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())

		exists, err = repo.UserExists(ctx, user.ID+1)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())
	})
})
