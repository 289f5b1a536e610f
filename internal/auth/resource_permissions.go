package auth

// Capabilities is the CRUD view of one resource for one user.
type Capabilities struct {
	Read   bool `json:"read"`
	Create bool `json:"create"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// ResourcePermissions derives per-resource CRUD booleans. Unknown resource types have no capabilities.
type ResourcePermissions struct {
	checker PermissionChecker
}

func NewResourcePermissions(checker PermissionChecker) *ResourcePermissions {
	return &ResourcePermissions{checker: checker}
}

func (p *ResourcePermissions) CanRead(user *User, resourceType string) bool {
	rc, ok := LookupResource(resourceType)
	return ok && p.checker.HasPermission(user, rc.Read)
}

func (p *ResourcePermissions) CanCreate(user *User, resourceType string) bool {
	rc, ok := LookupResource(resourceType)
	return ok && p.checker.HasPermission(user, rc.Create)
}

func (p *ResourcePermissions) CanEdit(user *User, resourceType string) bool {
	rc, ok := LookupResource(resourceType)
	return ok && p.checker.HasPermission(user, rc.Update)
}

func (p *ResourcePermissions) CanDelete(user *User, resourceType string) bool {
	rc, ok := LookupResource(resourceType)
	return ok && p.checker.HasPermission(user, rc.Delete)
}

func (p *ResourcePermissions) For(user *User, resourceType string) Capabilities {
	return Capabilities{
		Read:   p.CanRead(user, resourceType),
		Create: p.CanCreate(user, resourceType),
		Update: p.CanEdit(user, resourceType),
		Delete: p.CanDelete(user, resourceType),
	}
}

// All returns capabilities keyed by every known resource.
func (p *ResourcePermissions) All(user *User) map[Resource]Capabilities {
	out := make(map[Resource]Capabilities, len(resourceTable))
	for _, r := range Resources() {
		out[r] = p.For(user, string(r))
	}
	return out
}
