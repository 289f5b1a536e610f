package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("DefaultPermissionChecker", func() {
	var checker PermissionChecker

	ginkgo.BeforeEach(func() {
		checker = NewPermissionChecker()
	})

	ginkgo.Describe("HasPermission", func() {
		ginkgo.It("should allow admins every code", func() {
			admin := &User{ID: 1, Role: RoleAdmin}
			for _, code := range AllCodes() {
				gomega.Expect(checker.HasPermission(admin, code)).To(gomega.BeTrue(), string(code))
			}
			gomega.Expect(checker.HasPermission(admin, Code("anything_else"))).To(gomega.BeTrue())
		})

		ginkgo.It("should deny guests everything without grants", func() {
			guest := &User{ID: 2, Role: RoleGuest}
			for _, code := range AllCodes() {
				gomega.Expect(checker.HasPermission(guest, code)).To(gomega.BeFalse(), string(code))
			}
		})

		ginkgo.It("should allow guests exactly their grants", func() {
			guest := &User{ID: 2, Role: RoleGuest, Grants: []Code{RoomRead}}
			gomega.Expect(checker.HasPermission(guest, RoomRead)).To(gomega.BeTrue())
			gomega.Expect(checker.HasPermission(guest, RoomCreate)).To(gomega.BeFalse())
		})

		ginkgo.It("should use the role baseline", func() {
			member := &User{ID: 3, Role: RoleMember}
			gomega.Expect(checker.HasPermission(member, TicketCreate)).To(gomega.BeTrue())
			gomega.Expect(checker.HasPermission(member, StorageUpdate)).To(gomega.BeFalse())

			tech := &User{ID: 4, Role: RoleTechnician}
			gomega.Expect(checker.HasPermission(tech, DeploymentCreate)).To(gomega.BeTrue())
			gomega.Expect(checker.HasPermission(tech, BuildingDelete)).To(gomega.BeFalse())
		})

		ginkgo.It("should deny a nil user", func() {
			gomega.Expect(checker.HasPermission(nil, RoomRead)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("HasAnyPermission and HasAllPermissions", func() {
		member := &User{ID: 3, Role: RoleMember, Grants: []Code{AssetUpdate}}

		ginkgo.It("should quantify over codes", func() {
			gomega.Expect(checker.HasAnyPermission(member, []Code{BuildingDelete, AssetUpdate})).To(gomega.BeTrue())
			gomega.Expect(checker.HasAnyPermission(member, []Code{BuildingDelete})).To(gomega.BeFalse())
			gomega.Expect(checker.HasAllPermissions(member, []Code{RoomRead, AssetUpdate})).To(gomega.BeTrue())
			gomega.Expect(checker.HasAllPermissions(member, []Code{RoomRead, BuildingDelete})).To(gomega.BeFalse())
		})

		ginkgo.It("should treat empty lists consistently", func() {
			gomega.Expect(checker.HasAnyPermission(member, nil)).To(gomega.BeFalse())
			gomega.Expect(checker.HasAllPermissions(member, nil)).To(gomega.BeTrue())
			gomega.Expect(checker.HasAllPermissions(nil, nil)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("GetUserPermissionCodes", func() {
		ginkgo.It("should contain the role baseline for every role", func() {
			for _, role := range Roles {
				user := &User{ID: 9, Role: role, Grants: []Code{UserDelete}}
				effective := checker.GetUserPermissionCodes(user)
				for _, code := range checker.GetDefaultPermissionsForRole(role) {
					gomega.Expect(effective).To(gomega.ContainElement(code))
				}
			}
		})

		ginkgo.It("should merge grants without duplicates", func() {
			member := &User{ID: 3, Role: RoleMember, Grants: []Code{RoomRead, RoomRead, StorageDelete}}
			codes := checker.GetUserPermissionCodes(member)

			gomega.Expect(codes).To(gomega.ContainElement(StorageDelete))
			seen := map[Code]int{}
			for _, c := range codes {
				seen[c]++
			}
			gomega.Expect(seen[RoomRead]).To(gomega.Equal(1))
		})

		ginkgo.It("should return an empty set for a nil user", func() {
			gomega.Expect(checker.GetUserPermissionCodes(nil)).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetDefaultPermissionsForRole", func() {
		ginkgo.It("should give guests nothing", func() {
			gomega.Expect(checker.GetDefaultPermissionsForRole(RoleGuest)).To(gomega.BeEmpty())
		})

		ginkgo.It("should give technicians every read code", func() {
			codes := checker.GetDefaultPermissionsForRole(RoleTechnician)
			for _, c := range ReadCodes() {
				gomega.Expect(codes).To(gomega.ContainElement(c))
			}
			gomega.Expect(codes).To(gomega.ContainElements(TicketDelete, ScheduleDelete))
			gomega.Expect(codes).NotTo(gomega.ContainElement(UserUpdate))
		})

		ginkgo.It("should give admins the full catalog", func() {
			gomega.Expect(checker.GetDefaultPermissionsForRole(RoleAdmin)).To(gomega.HaveLen(len(AllCodes())))
		})
	})

	ginkgo.Describe("coarse shortcuts", func() {
		ginkgo.It("should let admins and technicians create and edit", func() {
			for _, role := range []Role{RoleAdmin, RoleTechnician} {
				u := &User{ID: 1, Role: role}
				gomega.Expect(checker.CanCreate(u)).To(gomega.BeTrue())
				gomega.Expect(checker.CanEdit(u)).To(gomega.BeTrue())
			}
		})

		ginkgo.It("should only let admins delete unconditionally", func() {
			gomega.Expect(checker.CanDelete(&User{ID: 1, Role: RoleAdmin})).To(gomega.BeTrue())
			gomega.Expect(checker.CanDelete(&User{ID: 2, Role: RoleGuest})).To(gomega.BeFalse())
		})

		ginkgo.It("should fall back to the global code lists", func() {
			member := &User{ID: 3, Role: RoleMember}
			gomega.Expect(checker.CanCreate(member)).To(gomega.BeTrue())
			gomega.Expect(checker.CanEdit(member)).To(gomega.BeFalse())

			editor := &User{ID: 4, Role: RoleGuest, Grants: []Code{RoomUpdate}}
			gomega.Expect(checker.CanEdit(editor)).To(gomega.BeTrue())
			gomega.Expect(checker.CanDelete(editor)).To(gomega.BeFalse())
		})

		ginkgo.It("should deny a nil user", func() {
			gomega.Expect(checker.CanCreate(nil)).To(gomega.BeFalse())
			gomega.Expect(checker.CanEdit(nil)).To(gomega.BeFalse())
			gomega.Expect(checker.CanDelete(nil)).To(gomega.BeFalse())
		})
	})
})

var _ = ginkgo.Describe("ParseRole", func() {
	ginkgo.DescribeTable("aliases",
		func(in string, want Role) {
			got, err := ParseRole(in)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.Equal(want))
		},
		ginkgo.Entry("admin", "admin", RoleAdmin),
		ginkgo.Entry("manager", "Manager", RoleTechnician),
		ginkgo.Entry("user", " user ", RoleMember),
		ginkgo.Entry("guest", "GUEST", RoleGuest),
	)

	ginkgo.It("should reject unknown roles", func() {
		_, err := ParseRole("superuser")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
