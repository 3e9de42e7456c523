package dto

type EquipmentDTO struct {
	ID                 uint64 `json:"id"`
	RecallNumber       string `json:"recall_number,omitempty"`
	SerialNumber       string `json:"serial_number"`
	Description        string `json:"description"`
	Manufacturer       string `json:"manufacturer,omitempty"`
	Model              string `json:"model,omitempty"`
	ProcessRangeMin    string `json:"process_range_min,omitempty"`
	ProcessRangeMax    string `json:"process_range_max,omitempty"`
	NextCalibrationDue string `json:"next_calibration_due,omitempty"`
	Status             string `json:"status"`
	Custodian          *ShortEmployeeDTO `json:"custodian,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}
