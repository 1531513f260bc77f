// Package main provides the entry point of the FleetRent access control
// service. It serves the role, role assignment and permission endpoints of
// the rental platform over a JSON API built on Fiber, persists roles and
// assignments with gorm and keeps computed permission sets in a process
// local cache.
package main
