package auth

// PermissionChecker answers capability questions. It never fails: a nil user is denied.
type PermissionChecker interface {
	HasPermission(user *User, code Code) bool
	HasAnyPermission(user *User, codes []Code) bool
	HasAllPermissions(user *User, codes []Code) bool
	GetUserPermissionCodes(user *User) []Code
	GetDefaultPermissionsForRole(role Role) []Code
	CanCreate(user *User) bool
	CanEdit(user *User) bool
	CanDelete(user *User) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

// HasPermission grants admins everything, then consults the role baseline, then explicit grants.
func (c *DefaultPermissionChecker) HasPermission(user *User, code Code) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}
	if _, ok := roleBaselines[user.Role][code]; ok {
		return true
	}
	for _, g := range user.Grants {
		if g == code {
			return true
		}
	}
	return false
}

func (c *DefaultPermissionChecker) HasAnyPermission(user *User, codes []Code) bool {
	for _, code := range codes {
		if c.HasPermission(user, code) {
			return true
		}
	}
	return false
}

// HasAllPermissions is vacuously true for an empty list when a user is present.
func (c *DefaultPermissionChecker) HasAllPermissions(user *User, codes []Code) bool {
	if user == nil {
		return false
	}
	for _, code := range codes {
		if !c.HasPermission(user, code) {
			return false
		}
	}
	return true
}

// GetUserPermissionCodes is the sorted union of the role baseline and explicit grants.
func (c *DefaultPermissionChecker) GetUserPermissionCodes(user *User) []Code {
	if user == nil {
		return []Code{}
	}
	set := make(map[Code]struct{})
	for code := range roleBaselines[user.Role] {
		set[code] = struct{}{}
	}
	for _, g := range user.Grants {
		set[g] = struct{}{}
	}
	return sortedCodes(set)
}

func (c *DefaultPermissionChecker) GetDefaultPermissionsForRole(role Role) []Code {
	return sortedCodes(roleBaselines[role])
}

func (c *DefaultPermissionChecker) CanCreate(user *User) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleAdmin || user.Role == RoleTechnician {
		return true
	}
	return c.HasAnyPermission(user, CreateCodes())
}

func (c *DefaultPermissionChecker) CanEdit(user *User) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleAdmin || user.Role == RoleTechnician {
		return true
	}
	return c.HasAnyPermission(user, UpdateCodes())
}

func (c *DefaultPermissionChecker) CanDelete(user *User) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}
	return c.HasAnyPermission(user, DeleteCodes())
}
