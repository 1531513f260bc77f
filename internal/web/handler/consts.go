package handler

const (
	// APIPrefix is the path prefix of the JSON api group.
	APIPrefix = "/api/v1"

	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilDepsFatalLogMsg is used if router, cfg or deps pointer is nil.
	ErrNilDepsFatalLogMsg = "router, cfg or deps is nil"

	// ParamID is the route parameter holding a role id.
	ParamID = "id"
	// ParamUserID is the route parameter holding a user id.
	ParamUserID = "userId"
	// ParamRoleID is the route parameter holding a role id on user-role routes.
	ParamRoleID = "roleId"

	// QueryOrganizationID is the query parameter selecting an organization.
	QueryOrganizationID = "organizationId"

	// MsgInvalidBody is returned when the request body can not be decoded.
	MsgInvalidBody = "invalid request body"
	// MsgValidationFailed is returned when the request body fails validation.
	MsgValidationFailed = "validation failed"
	// MsgInternal is returned for infrastructure failures.
	MsgInternal = "internal server error"
)
