package models

// UserType is the account category of a user. Tenant scoping is derived from
// it, not from the roles a user holds.
type UserType string

const (
	// UserTypeSuperAdmin sees every tenant.
	UserTypeSuperAdmin UserType = "SUPER_ADMIN"
	// UserTypeOrganizationOwner owns one organization.
	UserTypeOrganizationOwner UserType = "ORGANIZATION_OWNER"
	// UserTypeAgencyManager manages one agency.
	UserTypeAgencyManager UserType = "AGENCY_MANAGER"
	// UserTypeRentalAgent works at one agency.
	UserTypeRentalAgent UserType = "RENTAL_AGENT"
	// UserTypeClient is an end customer.
	UserTypeClient UserType = "CLIENT"
)

// IsAgencyBound reports whether users of this type are restricted to their agency.
func (t UserType) IsAgencyBound() bool {
	return t == UserTypeAgencyManager || t == UserTypeRentalAgent
}
