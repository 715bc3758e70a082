package models

import "time"

// Role identifies what a user can do on the platform.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleExpert Role = "expert"
	RoleAdmin  Role = "admin"
)

// ExpertStatus is the admin approval state of an expert account.
// Only approved experts are matchable.
type ExpertStatus string

const (
	ExpertPending  ExpertStatus = "pending"
	ExpertApproved ExpertStatus = "approved"
	ExpertRejected ExpertStatus = "rejected"
)

// User represents a platform account. Expert-only fields are empty for
// farmers and admins.
type User struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Email       string `bson:"email" json:"email"`
	PhoneNumber string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Role        Role   `bson:"role" json:"role"`

	Municipality string `bson:"municipality,omitempty" json:"municipality,omitempty"`
	Ward         string `bson:"ward,omitempty" json:"ward,omitempty"`
	District     string `bson:"district,omitempty" json:"district,omitempty"`
	Province     string `bson:"province,omitempty" json:"province,omitempty"`

	// Expert profile.
	ExpertStatus    ExpertStatus `bson:"expertStatus,omitempty" json:"expertStatus,omitempty"`
	Qualification   string       `bson:"qualification,omitempty" json:"qualification,omitempty"`
	LabMunicipality string       `bson:"labMunicipality,omitempty" json:"labMunicipality,omitempty"`
	LabWard         string       `bson:"labWard,omitempty" json:"labWard,omitempty"`

	// Count of bookings currently assigned to or accepted by the expert.
	// Maintained in the same transaction as the booking write that changes
	// the expert's active set.
	ActiveBookings int `bson:"activeBookings" json:"activeBookings"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
