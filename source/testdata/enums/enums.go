// Package enums holds fixtures for the source provider tests.
package enums

// TripStatus is the lifecycle of a trip.
//
//enumshare:export
type TripStatus string

const (
	//enumshare:label Trip Saved
	//enumshare:meta {"color": "gray"}
	TripStatusSaved TripStatus = "saved"

	//enumshare:label Confirmed Trip
	TripStatusConfirmed TripStatus = "confirmed"

	TripStatusCancelled TripStatus = "cancelled"
)

// UserRole is exported without values.
//
//enumshare:export pure
type UserRole string

const (
	//enumshare:trans roles.admin
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// Priority is marked with a method instead of a directive.
type Priority int

// FrontendEnum marks Priority for export.
func (Priority) FrontendEnum() {}

const (
	PriorityLow Priority = iota + 1
	PriorityHigh
	//enumshare:ignore
	PriorityUnset Priority = 0
	priorityMax   Priority = 99
)

// Shape is not an enum.
type Shape struct {
	Sides int
}

// Hidden is an enum that is not marked.
type Hidden string

const HiddenValue Hidden = "hidden"

// Empty is marked but has no cases.
//
//enumshare:export
type Empty string

// Broken has a malformed annotation.
//
//enumshare:export
type Broken string

//enumshare:meta not-json
const BrokenCase Broken = "broken"

// Ratio has a float underlying type.
//
//enumshare:export
type Ratio float64

const RatioHalf Ratio = 0.5
