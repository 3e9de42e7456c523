package dto

// CompleteCalibrationDTO — payload центрального перехода "калибровка завершена".
type CompleteCalibrationDTO struct {
	Pin                string `json:"pin" validate:"required,pin"`
	CalibrationDate    string `json:"calibration_date" validate:"omitempty,datetime=2006-01-02"`
	CalibrationDueDate string `json:"calibration_due_date" validate:"omitempty,datetime=2006-01-02"`
	DateOut            string `json:"date_out" validate:"omitempty,datetime=2006-01-02"`
	CTReqd             *int   `json:"ct_reqd" validate:"omitempty,gte=0"`
	CommitETC          *int   `json:"commit_etc" validate:"omitempty,gte=0"`
	ActualETC          *int   `json:"actual_etc" validate:"omitempty,gte=0"`
}

type ConfirmPickupDTO struct {
	Pin string `json:"pin" validate:"required,pin"`
}

type OutgoingRecordDTO struct {
	ID                 uint64 `json:"id"`
	IncomingID         uint64 `json:"incoming_id"`
	RecallNumber       string `json:"recall_number"`
	Status             string `json:"status"`
	DateOut            string `json:"date_out"`
	CalibrationDate    string `json:"calibration_date,omitempty"`
	CalibrationDueDate string `json:"calibration_due_date,omitempty"`
	CycleTime          int    `json:"cycle_time"`
	CTReqd             *int   `json:"ct_reqd,omitempty"`
	CommitETC          *int   `json:"commit_etc,omitempty"`
	ActualETC          *int   `json:"actual_etc,omitempty"`
	Overdue            bool   `json:"overdue"`

	Employee    ShortEmployeeDTO   `json:"employee"`
	EmployeeOut *ShortEmployeeDTO  `json:"employee_out,omitempty"`
	Technician  ShortEmployeeDTO   `json:"technician"`
	Incoming    *IncomingRecordDTO `json:"incoming,omitempty"`
}
