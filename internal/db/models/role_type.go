package models

// RoleType classifies a role. Each type carries display and ordering metadata
// used when a role is created without explicit values.
type RoleType string

const (
	// RoleTypeSuperAdmin grants platform-wide access and bypasses permission checks.
	RoleTypeSuperAdmin RoleType = "SUPER_ADMIN"
	// RoleTypeOrganizationOwner owns an organization and bypasses checks inside it.
	RoleTypeOrganizationOwner RoleType = "ORGANIZATION_OWNER"
	// RoleTypeOrganizationAdmin administers an organization.
	RoleTypeOrganizationAdmin RoleType = "ORGANIZATION_ADMIN"
	// RoleTypeAgencyManager manages a single agency.
	RoleTypeAgencyManager RoleType = "AGENCY_MANAGER"
	// RoleTypeAccountant handles accounting.
	RoleTypeAccountant RoleType = "ACCOUNTANT"
	// RoleTypePaymentManager handles payments.
	RoleTypePaymentManager RoleType = "PAYMENT_MANAGER"
	// RoleTypeRentalAgent handles rentals at an agency counter.
	RoleTypeRentalAgent RoleType = "RENTAL_AGENT"
	// RoleTypeMechanic maintains vehicles.
	RoleTypeMechanic RoleType = "MECHANIC"
	// RoleTypeDriver drives vehicles.
	RoleTypeDriver RoleType = "DRIVER"
	// RoleTypeClient is the end customer.
	RoleTypeClient RoleType = "CLIENT"
	// RoleTypeCustom is any organization defined role.
	RoleTypeCustom RoleType = "CUSTOM"
)

// RoleTypeInfo holds the defaults attached to a RoleType.
type RoleTypeInfo struct {
	DisplayName  string
	Priority     int
	IsSystemRole bool
	Color        string
	Icon         string
}

var roleTypeInfo = map[RoleType]RoleTypeInfo{ //nolint:gochecknoglobals
	RoleTypeSuperAdmin:        {"Super Administrator", 100, true, "#dc2626", "crown"},
	RoleTypeOrganizationOwner: {"Organization Owner", 90, false, "#7c3aed", "building"},
	RoleTypeOrganizationAdmin: {"Organization Administrator", 80, false, "#059669", "settings"},
	RoleTypeAgencyManager:     {"Agency Manager", 70, false, "#2563eb", "home"},
	RoleTypeAccountant:        {"Accountant", 60, false, "#16a34a", "calculator"},
	RoleTypePaymentManager:    {"Payment Manager", 55, false, "#ca8a04", "credit-card"},
	RoleTypeRentalAgent:       {"Rental Agent", 50, false, "#ea580c", "user-check"},
	RoleTypeMechanic:          {"Mechanic", 40, false, "#dc2626", "wrench"},
	RoleTypeDriver:            {"Driver", 30, false, "#0891b2", "car"},
	RoleTypeClient:            {"Client", 10, true, "#059669", "user"},
	RoleTypeCustom:            {"Custom Role", 0, false, "#6b7280", "shield"},
}

// RoleTypes returns every known role type ordered by descending default priority.
func RoleTypes() []RoleType {
	return []RoleType{
		RoleTypeSuperAdmin,
		RoleTypeOrganizationOwner,
		RoleTypeOrganizationAdmin,
		RoleTypeAgencyManager,
		RoleTypeAccountant,
		RoleTypePaymentManager,
		RoleTypeRentalAgent,
		RoleTypeMechanic,
		RoleTypeDriver,
		RoleTypeClient,
		RoleTypeCustom,
	}
}

// Valid reports whether t is a known role type.
func (t RoleType) Valid() bool {
	_, ok := roleTypeInfo[t]
	return ok
}

// Info returns the defaults of t. Unknown types fall back to CUSTOM.
func (t RoleType) Info() RoleTypeInfo {
	if info, ok := roleTypeInfo[t]; ok {
		return info
	}

	return roleTypeInfo[RoleTypeCustom]
}

// IsSuperiorTo reports whether t ranks above other.
func (t RoleType) IsSuperiorTo(other RoleType) bool {
	return t.Info().Priority > other.Info().Priority
}

// CanAssign reports whether a holder of t may hand out roles of type other.
// Super admins may assign anything, everybody else only strictly lower types.
func (t RoleType) CanAssign(other RoleType) bool {
	if t == RoleTypeSuperAdmin {
		return true
	}

	return t.IsSuperiorTo(other)
}

// CanModify reports whether a holder of t may edit roles of type other.
func (t RoleType) CanModify(other RoleType) bool {
	if other.Info().IsSystemRole {
		return t == RoleTypeSuperAdmin
	}

	return t.CanAssign(other)
}
