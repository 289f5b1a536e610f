package auth

import (
	"sort"
	"strings"
)

// Code is a permission catalog key of the form <resource>_<action>.
type Code string

// Resource is a permission-bearing resource type.
type Resource string

const (
	ResourceBuilding   Resource = "building"
	ResourceFloor      Resource = "floor"
	ResourceRoom       Resource = "room"
	ResourceStorage    Resource = "storage"
	ResourceAsset      Resource = "asset"
	ResourceDeployment Resource = "deployment"
	ResourceTicket     Resource = "ticket"
	ResourceSchedule   Resource = "schedule"
	ResourceUser       Resource = "user"
)

const (
	BuildingRead   Code = "building_read"
	BuildingCreate Code = "building_create"
	BuildingUpdate Code = "building_update"
	BuildingDelete Code = "building_delete"

	FloorRead   Code = "floor_read"
	FloorCreate Code = "floor_create"
	FloorUpdate Code = "floor_update"
	FloorDelete Code = "floor_delete"

	RoomRead   Code = "room_read"
	RoomCreate Code = "room_create"
	RoomUpdate Code = "room_update"
	RoomDelete Code = "room_delete"

	StorageRead   Code = "storage_read"
	StorageCreate Code = "storage_create"
	StorageUpdate Code = "storage_update"
	StorageDelete Code = "storage_delete"

	AssetRead   Code = "asset_read"
	AssetCreate Code = "asset_create"
	AssetUpdate Code = "asset_update"
	AssetDelete Code = "asset_delete"

	DeploymentRead   Code = "deployment_read"
	DeploymentCreate Code = "deployment_create"
	DeploymentUpdate Code = "deployment_update"
	DeploymentDelete Code = "deployment_delete"

	TicketRead   Code = "ticket_read"
	TicketCreate Code = "ticket_create"
	TicketUpdate Code = "ticket_update"
	TicketDelete Code = "ticket_delete"

	ScheduleRead   Code = "schedule_read"
	ScheduleCreate Code = "schedule_create"
	ScheduleUpdate Code = "schedule_update"
	ScheduleDelete Code = "schedule_delete"

	UserRead   Code = "user_read"
	UserCreate Code = "user_create"
	UserUpdate Code = "user_update"
	UserDelete Code = "user_delete"
)

// ResourceCodes holds the four permission identifiers of one resource.
type ResourceCodes struct {
	Read   Code
	Create Code
	Update Code
	Delete Code
}

var resourceTable = map[Resource]ResourceCodes{
	ResourceBuilding:   {BuildingRead, BuildingCreate, BuildingUpdate, BuildingDelete},
	ResourceFloor:      {FloorRead, FloorCreate, FloorUpdate, FloorDelete},
	ResourceRoom:       {RoomRead, RoomCreate, RoomUpdate, RoomDelete},
	ResourceStorage:    {StorageRead, StorageCreate, StorageUpdate, StorageDelete},
	ResourceAsset:      {AssetRead, AssetCreate, AssetUpdate, AssetDelete},
	ResourceDeployment: {DeploymentRead, DeploymentCreate, DeploymentUpdate, DeploymentDelete},
	ResourceTicket:     {TicketRead, TicketCreate, TicketUpdate, TicketDelete},
	ResourceSchedule:   {ScheduleRead, ScheduleCreate, ScheduleUpdate, ScheduleDelete},
	ResourceUser:       {UserRead, UserCreate, UserUpdate, UserDelete},
}

var knownCodes = func() map[Code]struct{} {
	m := make(map[Code]struct{}, len(resourceTable)*4)
	for _, rc := range resourceTable {
		for _, c := range rc.All() {
			m[c] = struct{}{}
		}
	}
	return m
}()

func (rc ResourceCodes) All() []Code {
	return []Code{rc.Read, rc.Create, rc.Update, rc.Delete}
}

// LookupResource normalises a free-form resource type and returns its codes.
func LookupResource(resourceType string) (ResourceCodes, bool) {
	rc, ok := resourceTable[Resource(strings.ToLower(strings.TrimSpace(resourceType)))]
	return rc, ok
}

// Resources returns every known resource in name order.
func Resources() []Resource {
	out := make([]Resource, 0, len(resourceTable))
	for r := range resourceTable {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseCode validates a catalog key.
func ParseCode(s string) (Code, bool) {
	c := Code(strings.ToLower(strings.TrimSpace(s)))
	_, ok := knownCodes[c]
	return c, ok
}

func AllCodes() []Code {
	return collect(func(rc ResourceCodes) []Code { return rc.All() })
}

func ReadCodes() []Code {
	return collect(func(rc ResourceCodes) []Code { return []Code{rc.Read} })
}

func CreateCodes() []Code {
	return collect(func(rc ResourceCodes) []Code { return []Code{rc.Create} })
}

func UpdateCodes() []Code {
	return collect(func(rc ResourceCodes) []Code { return []Code{rc.Update} })
}

func DeleteCodes() []Code {
	return collect(func(rc ResourceCodes) []Code { return []Code{rc.Delete} })
}

func collect(pick func(ResourceCodes) []Code) []Code {
	var out []Code
	for _, r := range Resources() {
		out = append(out, pick(resourceTable[r])...)
	}
	return out
}

func codesOf(rs ...Resource) func(func(ResourceCodes) Code) []Code {
	return func(pick func(ResourceCodes) Code) []Code {
		out := make([]Code, 0, len(rs))
		for _, r := range rs {
			out = append(out, pick(resourceTable[r]))
		}
		return out
	}
}

func technicianBaseline() []Code {
	managed := codesOf(ResourceFloor, ResourceRoom, ResourceStorage, ResourceAsset, ResourceDeployment, ResourceTicket, ResourceSchedule)
	removable := codesOf(ResourceTicket, ResourceSchedule)

	codes := ReadCodes()
	codes = append(codes, managed(func(rc ResourceCodes) Code { return rc.Create })...)
	codes = append(codes, managed(func(rc ResourceCodes) Code { return rc.Update })...)
	codes = append(codes, removable(func(rc ResourceCodes) Code { return rc.Delete })...)
	return codes
}

func memberBaseline() []Code {
	visible := codesOf(ResourceBuilding, ResourceFloor, ResourceRoom, ResourceStorage, ResourceAsset, ResourceTicket, ResourceSchedule)
	requestable := codesOf(ResourceTicket, ResourceSchedule)

	codes := visible(func(rc ResourceCodes) Code { return rc.Read })
	return append(codes, requestable(func(rc ResourceCodes) Code { return rc.Create })...)
}

// roleBaselines is the static allow-list per role. Admin is short-circuited by the checker.
var roleBaselines = map[Role]map[Code]struct{}{
	RoleAdmin:      toSet(AllCodes()),
	RoleTechnician: toSet(technicianBaseline()),
	RoleMember:     toSet(memberBaseline()),
	RoleGuest:      {},
}

func toSet(codes []Code) map[Code]struct{} {
	m := make(map[Code]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}

func sortedCodes(set map[Code]struct{}) []Code {
	out := make([]Code, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CodeStrings converts codes for JSON payloads and SQL parameters.
func CodeStrings(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
