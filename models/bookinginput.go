package models

// CreateBookingInput is the farmer-facing payload for creating a booking.
type CreateBookingInput struct {
	FieldName      string `json:"fieldName"`
	PhoneNumber    string `json:"phoneNumber"`
	Municipality   string `json:"municipality"`
	Ward           string `json:"ward"`
	District       string `json:"district"`
	Province       string `json:"province"`
	CollectionDate string `json:"collectionDate"`
	TimeSlot       string `json:"timeSlot"`
	NepaliDate     string `json:"nepaliDate"`
}

// UploadReportInput carries the report reference an expert attaches to a
// collected booking.
type UploadReportInput struct {
	ReportFile               string       `json:"reportFile"`
	SoilResults              *SoilResults `json:"soilResults,omitempty"`
	FertilizerRecommendation string       `json:"fertilizerRecommendation,omitempty"`
}
