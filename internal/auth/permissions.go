package auth

import (
	"fmt"
	"strings"
)

// Permission is one grantable capability of the catalog. The set of values is
// closed: only the constants below exist, untyped codes are accepted only
// through ParsePermission.
type Permission uint8

// Permission constants define the available permissions in the system, grouped by resource.
const (
	permissionInvalid Permission = iota

	UserRead
	UserWrite
	UserUpdate
	UserDelete
	UserManageRoles
	UserResetPassword

	OrganizationRead
	OrganizationWrite
	OrganizationUpdate
	OrganizationDelete
	OrganizationManageSettings
	OrganizationManageSubscription

	AgencyRead
	AgencyWrite
	AgencyUpdate
	AgencyDelete
	AgencyManageStaff

	RoleRead
	RoleWrite
	RoleUpdate
	RoleDelete
	RoleAssignPermissions

	VehicleRead
	VehicleWrite
	VehicleUpdate
	VehicleDelete
	VehicleManageImages
	VehicleChangeStatus

	DriverRead
	DriverWrite
	DriverUpdate
	DriverDelete
	DriverManageDocuments
	DriverManageSchedule

	RentalRead
	RentalWrite
	RentalUpdate
	RentalDelete
	RentalApprove
	RentalCancel
	RentalExtend

	PaymentRead
	PaymentProcess
	PaymentRefund
	PaymentViewDetails

	ReportRead
	ReportGenerate
	ReportExport
	ReportAdvanced

	SettingsRead
	SettingsWrite
	SettingsManageNotifications

	permissionCount
)

// Resource names of the catalog.
const (
	ResourceUser         = "USER"
	ResourceOrganization = "ORGANIZATION"
	ResourceAgency       = "AGENCY"
	ResourceRole         = "ROLE"
	ResourceVehicle      = "VEHICLE"
	ResourceDriver       = "DRIVER"
	ResourceRental       = "RENTAL"
	ResourcePayment      = "PAYMENT"
	ResourceReport       = "REPORT"
	ResourceSettings     = "SETTINGS"

	// ResourceUnknown is reported for stored codes missing from the catalog.
	ResourceUnknown = "UNKNOWN"
)

type permissionInfo struct {
	resource    string
	action      string
	description string
}

var catalog = [permissionCount]permissionInfo{ //nolint:gochecknoglobals
	UserRead:          {ResourceUser, "READ", "View users"},
	UserWrite:         {ResourceUser, "WRITE", "Create users"},
	UserUpdate:        {ResourceUser, "UPDATE", "Edit users"},
	UserDelete:        {ResourceUser, "DELETE", "Delete users"},
	UserManageRoles:   {ResourceUser, "MANAGE_ROLES", "Assign and revoke user roles"},
	UserResetPassword: {ResourceUser, "RESET_PASSWORD", "Reset user passwords"},

	OrganizationRead:               {ResourceOrganization, "READ", "View the organization"},
	OrganizationWrite:              {ResourceOrganization, "WRITE", "Create organizations"},
	OrganizationUpdate:             {ResourceOrganization, "UPDATE", "Edit the organization"},
	OrganizationDelete:             {ResourceOrganization, "DELETE", "Delete the organization"},
	OrganizationManageSettings:     {ResourceOrganization, "MANAGE_SETTINGS", "Manage organization settings"},
	OrganizationManageSubscription: {ResourceOrganization, "MANAGE_SUBSCRIPTION", "Manage the subscription"},

	AgencyRead:        {ResourceAgency, "READ", "View agencies"},
	AgencyWrite:       {ResourceAgency, "WRITE", "Create agencies"},
	AgencyUpdate:      {ResourceAgency, "UPDATE", "Edit agencies"},
	AgencyDelete:      {ResourceAgency, "DELETE", "Delete agencies"},
	AgencyManageStaff: {ResourceAgency, "MANAGE_STAFF", "Manage agency staff"},

	RoleRead:              {ResourceRole, "READ", "View roles"},
	RoleWrite:             {ResourceRole, "WRITE", "Create roles"},
	RoleUpdate:            {ResourceRole, "UPDATE", "Edit roles"},
	RoleDelete:            {ResourceRole, "DELETE", "Delete roles"},
	RoleAssignPermissions: {ResourceRole, "ASSIGN_PERMISSIONS", "Change role permissions"},

	VehicleRead:         {ResourceVehicle, "READ", "View vehicles"},
	VehicleWrite:        {ResourceVehicle, "WRITE", "Create vehicles"},
	VehicleUpdate:       {ResourceVehicle, "UPDATE", "Edit vehicles"},
	VehicleDelete:       {ResourceVehicle, "DELETE", "Delete vehicles"},
	VehicleManageImages: {ResourceVehicle, "MANAGE_IMAGES", "Manage vehicle images"},
	VehicleChangeStatus: {ResourceVehicle, "CHANGE_STATUS", "Change vehicle status"},

	DriverRead:            {ResourceDriver, "READ", "View drivers"},
	DriverWrite:           {ResourceDriver, "WRITE", "Create drivers"},
	DriverUpdate:          {ResourceDriver, "UPDATE", "Edit drivers"},
	DriverDelete:          {ResourceDriver, "DELETE", "Delete drivers"},
	DriverManageDocuments: {ResourceDriver, "MANAGE_DOCUMENTS", "Manage driver documents"},
	DriverManageSchedule:  {ResourceDriver, "MANAGE_SCHEDULE", "Manage driver schedules"},

	RentalRead:    {ResourceRental, "READ", "View rentals"},
	RentalWrite:   {ResourceRental, "WRITE", "Create rentals"},
	RentalUpdate:  {ResourceRental, "UPDATE", "Edit rentals"},
	RentalDelete:  {ResourceRental, "DELETE", "Delete rentals"},
	RentalApprove: {ResourceRental, "APPROVE", "Approve rentals"},
	RentalCancel:  {ResourceRental, "CANCEL", "Cancel rentals"},
	RentalExtend:  {ResourceRental, "EXTEND", "Extend rentals"},

	PaymentRead:        {ResourcePayment, "READ", "View payments"},
	PaymentProcess:     {ResourcePayment, "PROCESS", "Process payments"},
	PaymentRefund:      {ResourcePayment, "REFUND", "Refund payments"},
	PaymentViewDetails: {ResourcePayment, "VIEW_DETAILS", "View payment details"},

	ReportRead:     {ResourceReport, "READ", "View reports"},
	ReportGenerate: {ResourceReport, "GENERATE", "Generate reports"},
	ReportExport:   {ResourceReport, "EXPORT", "Export reports"},
	ReportAdvanced: {ResourceReport, "ADVANCED", "Use advanced reports"},

	SettingsRead:                {ResourceSettings, "READ", "View settings"},
	SettingsWrite:               {ResourceSettings, "WRITE", "Change settings"},
	SettingsManageNotifications: {ResourceSettings, "MANAGE_NOTIFICATIONS", "Manage notifications"},
}

var byCode = func() map[string]Permission { //nolint:gochecknoglobals
	m := make(map[string]Permission, permissionCount-1)
	for p := permissionInvalid + 1; p < permissionCount; p++ {
		m[p.Code()] = p
	}

	return m
}()

// Code returns the RESOURCE_ACTION code of p.
func (p Permission) Code() string {
	if !p.Valid() {
		return ""
	}

	return catalog[p].resource + "_" + catalog[p].action
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	return p.Code()
}

// Resource returns the resource p belongs to.
func (p Permission) Resource() string {
	if !p.Valid() {
		return ""
	}

	return catalog[p].resource
}

// Action returns the action part of p.
func (p Permission) Action() string {
	if !p.Valid() {
		return ""
	}

	return catalog[p].action
}

// Description returns a human-readable description of p.
func (p Permission) Description() string {
	if !p.Valid() {
		return ""
	}

	return catalog[p].description
}

// Valid reports whether p is part of the catalog.
func (p Permission) Valid() bool {
	return p > permissionInvalid && p < permissionCount
}

// PermissionInfo is the transport representation of a catalog entry.
type PermissionInfo struct {
	Code        string `json:"code"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// Info returns the transport representation of p.
func (p Permission) Info() PermissionInfo {
	return PermissionInfo{
		Code:        p.Code(),
		Resource:    p.Resource(),
		Action:      p.Action(),
		Description: p.Description(),
	}
}

// AllPermissions returns the catalog in declaration order.
func AllPermissions() []Permission {
	out := make([]Permission, 0, permissionCount-1)
	for p := permissionInvalid + 1; p < permissionCount; p++ {
		out = append(out, p)
	}

	return out
}

// PermissionsForResource returns every permission of resource, matched case-insensitively.
func PermissionsForResource(resource string) []Permission {
	var out []Permission

	for _, p := range AllPermissions() {
		if strings.EqualFold(p.Resource(), resource) {
			out = append(out, p)
		}
	}

	return out
}

// AllResources returns the distinct resource names in catalog order.
func AllResources() []string {
	var (
		seen = make(map[string]bool)
		out  []string
	)

	for _, p := range AllPermissions() {
		if !seen[p.Resource()] {
			seen[p.Resource()] = true
			out = append(out, p.Resource())
		}
	}

	return out
}

// IsValidCode reports whether code names a catalog permission.
func IsValidCode(code string) bool {
	_, ok := byCode[code]
	return ok
}

// ParsePermission converts an untyped code into a Permission.
func ParsePermission(code string) (Permission, error) {
	p, ok := byCode[code]
	if !ok {
		return permissionInvalid, fmt.Errorf("%w: %q", ErrInvalidPermission, code)
	}

	return p, nil
}

// PermissionCode builds the RESOURCE_ACTION code for resource and action.
func PermissionCode(resource, action string) string {
	return strings.ToUpper(strings.TrimSpace(resource)) + "_" + strings.ToUpper(strings.TrimSpace(action))
}

// ValidateCodes checks every code against the catalog and returns them
// deduplicated in input order. The first unknown code fails the call.
func ValidateCodes(codes []string) ([]string, error) {
	var (
		seen = make(map[string]bool, len(codes))
		out  = make([]string, 0, len(codes))
	)

	for _, code := range codes {
		if !IsValidCode(code) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPermission, code)
		}

		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}

	return out, nil
}

// Codes converts typed permissions into their codes.
func Codes(perms ...Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, p.Code())
	}

	return out
}

// DescribeCode returns catalog details for a stored code. Codes no longer in
// the catalog are reported with resource UNKNOWN.
func DescribeCode(code string) PermissionInfo {
	if p, ok := byCode[code]; ok {
		return p.Info()
	}

	return PermissionInfo{
		Code:        code,
		Resource:    ResourceUnknown,
		Action:      ResourceUnknown,
		Description: "Unknown permission",
	}
}
