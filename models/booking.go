package models

import "time"

// BookingStatus is the canonical lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAssigned  BookingStatus = "assigned"
	StatusAccepted  BookingStatus = "accepted"
	StatusCollected BookingStatus = "collected"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid reports whether s is one of the known booking statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusAccepted, StatusCollected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further driven transition leaves s.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// TimeSlots is the fixed enumeration of collection time-of-day codes.
var TimeSlots = []string{"07:00", "09:00", "11:00", "13:00", "15:00"}

// IsValidTimeSlot reports whether slot is one of the bookable codes.
func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// SoilResults holds the measurements an expert records from a collected sample.
type SoilResults struct {
	PH            string `bson:"ph,omitempty" json:"ph,omitempty"`
	Nitrogen      string `bson:"nitrogen,omitempty" json:"nitrogen,omitempty"`
	Phosphorus    string `bson:"phosphorus,omitempty" json:"phosphorus,omitempty"`
	Potassium     string `bson:"potassium,omitempty" json:"potassium,omitempty"`
	OrganicMatter string `bson:"organicMatter,omitempty" json:"organicMatter,omitempty"`
	Notes         string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Booking represents one soil-test service request.
//
// Active mirrors Status: it is false only for cancelled bookings and backs
// the partial unique slot index, since the index filter cannot express
// "status != cancelled" directly.
type Booking struct {
	ID       string  `bson:"id" json:"id"`
	FarmerID string  `bson:"farmerId" json:"farmerId"`
	ExpertID *string `bson:"expertId,omitempty" json:"expertId,omitempty"`

	// Experts who declined this booking; grows monotonically and excludes
	// them from any re-match.
	RejectedExperts []string `bson:"rejectedExperts,omitempty" json:"rejectedExperts,omitempty"`

	FieldName   string `bson:"fieldName" json:"fieldName"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`

	Municipality string `bson:"municipality" json:"municipality"`
	Ward         string `bson:"ward" json:"ward"`
	District     string `bson:"district,omitempty" json:"district,omitempty"`
	Province     string `bson:"province,omitempty" json:"province,omitempty"`

	CollectionDate string `bson:"collectionDate" json:"collectionDate"` // "YYYY-MM-DD"
	TimeSlot       string `bson:"timeSlot" json:"timeSlot"`
	NepaliDate     string `bson:"nepaliDate,omitempty" json:"nepaliDate,omitempty"` // display only

	Status BookingStatus `bson:"status" json:"status"`
	Active bool          `bson:"active" json:"active"`

	ReportFile               *string      `bson:"reportFile,omitempty" json:"reportFile,omitempty"`
	ReportUploadedAt         *time.Time   `bson:"reportUploadedAt,omitempty" json:"reportUploadedAt,omitempty"`
	SoilResults              *SoilResults `bson:"soilResults,omitempty" json:"soilResults,omitempty"`
	FertilizerRecommendation string       `bson:"fertilizerRecommendation,omitempty" json:"fertilizerRecommendation,omitempty"`

	AssignedAt *time.Time `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// CountsTowardLoad reports whether the booking occupies a slot in its
// assigned expert's active set.
func (b Booking) CountsTowardLoad() bool {
	return b.ExpertID != nil && (b.Status == StatusAssigned || b.Status == StatusAccepted || b.Status == StatusCollected)
}
