// Package auth implements the multi-tenant role based access control core.
//
// # Permission Catalog
//
// Permission is a closed enumeration of RESOURCE_ACTION codes grouped by
// resource. Code sites use the typed constants (VehicleRead, RoleWrite, ...),
// untyped codes coming from API input go through ParsePermission or
// ValidateCodes.
//
// # Roles and Assignments
//
// RoleService manages organization scoped roles, AssignmentService manages
// the bindings of roles to users. A binding is currently active when it is
// flagged active and its optional expiry lies in the future. Both services
// receive an Invalidator and evict the cached permissions of every user a
// change can affect.
//
// # Authorization Decisions
//
// Service computes effective permissions as the union of the permission sets
// of all currently active roles of a user. Role priority is metadata only and
// never changes a decision. Boolean checks report "not allowed" as false,
// errors are reserved for store failures.
//
// # Tenant Scoping
//
// TenantResolver derives list filters from the user type of an account and
// offers gating checks (ValidateOrganizationAccess and friends) that fail
// with ErrAccessDenied.
//
// # Permission Cache
//
// PermissionCache memoizes effective permissions per user for a TTL of
// fifteen minutes by default. CleanupExpiredEntries is meant to be called
// periodically by the owner of the cache.
//
// Example usage:
//
//	engine := auth.NewService(userRoleStore, roleStore)
//	cache, err := auth.NewPermissionCache(engine, auth.DefaultCacheTTL, auth.DefaultCacheSize)
//	engine.UseCache(cache)
//
//	roles := auth.NewRoleService(roleStore, userRoleStore, cache)
//	assignments := auth.NewAssignmentService(userStore, roleStore, userRoleStore, cache)
//
//	ok, err := engine.Can(ctx, userID, auth.VehicleRead)
//
//	app.Post("/roles", auth.RequirePermission(engine, auth.RoleWrite), handler)
package auth
