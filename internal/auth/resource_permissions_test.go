package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("ResourcePermissions", func() {
	var facade *ResourcePermissions

	ginkgo.BeforeEach(func() {
		facade = NewResourcePermissions(NewPermissionChecker())
	})

	ginkgo.It("should normalise the resource type", func() {
		member := &User{ID: 1, Role: RoleMember}
		gomega.Expect(facade.CanRead(member, " ROOM ")).To(gomega.BeTrue())
		gomega.Expect(facade.CanCreate(member, "Ticket")).To(gomega.BeTrue())
		gomega.Expect(facade.CanEdit(member, "room")).To(gomega.BeFalse())
	})

	ginkgo.It("should treat unknown resource types as having no capabilities", func() {
		admin := &User{ID: 1, Role: RoleAdmin}
		caps := facade.For(admin, "spaceship")
		gomega.Expect(caps).To(gomega.Equal(Capabilities{}))
	})

	ginkgo.It("should delegate to grants", func() {
		guest := &User{ID: 2, Role: RoleGuest, Grants: []Code{StorageDelete}}
		gomega.Expect(facade.CanDelete(guest, "storage")).To(gomega.BeTrue())
		gomega.Expect(facade.CanRead(guest, "storage")).To(gomega.BeFalse())
	})

	ginkgo.It("should report every known resource", func() {
		all := facade.All(&User{ID: 3, Role: RoleTechnician})
		gomega.Expect(all).To(gomega.HaveLen(len(Resources())))
		gomega.Expect(all[ResourceDeployment]).To(gomega.Equal(Capabilities{Read: true, Create: true, Update: true}))
		gomega.Expect(all[ResourceBuilding]).To(gomega.Equal(Capabilities{Read: true}))
	})
})
