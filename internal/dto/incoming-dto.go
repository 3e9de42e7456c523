package dto

// SubmitIncomingDTO — заявка на приёмку прибора в калибровку.
type SubmitIncomingDTO struct {
	RecallNumber string `json:"recall_number" validate:"omitempty,recall_number"`
	TechnicianID uint64 `json:"technician_id" validate:"required,gt=0"`
	LocationID   uint64 `json:"location_id" validate:"omitempty,gt=0"`
	ReceivedByID uint64 `json:"received_by_id" validate:"omitempty,gt=0"`

	SerialNumber string `json:"serial_number" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Model        string `json:"model" validate:"omitempty"`
	Manufacturer string `json:"manufacturer" validate:"omitempty"`

	ProcessRangeMin string `json:"process_range_min" validate:"omitempty"`
	ProcessRangeMax string `json:"process_range_max" validate:"omitempty"`

	DueDate         string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	CalibrationDate string `json:"calibration_date" validate:"omitempty,datetime=2006-01-02"`
	ExpectedDueDate string `json:"expected_due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes           string `json:"notes" validate:"omitempty,max=2000"`
}

type IncomingRecordDTO struct {
	ID           uint64 `json:"id"`
	RecallNumber string `json:"recall_number"`
	SerialNumber string `json:"serial_number"`
	Description  string `json:"description"`
	Model        string `json:"model,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Status       string `json:"status"`
	DateIn       string `json:"date_in"`
	DueDate      string `json:"due_date,omitempty"`
	Notes        string `json:"notes,omitempty"`

	Equipment  ShortEquipmentDTO `json:"equipment"`
	Technician ShortEmployeeDTO  `json:"technician"`
	EmployeeIn ShortEmployeeDTO  `json:"employee_in"`
	ReceivedBy *ShortEmployeeDTO `json:"received_by,omitempty"`
	Location   *ShortLocationDTO `json:"location,omitempty"`
}
