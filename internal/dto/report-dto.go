package dto

type ReportItemDTO struct {
	IncomingID     uint64 `json:"incoming_id"`
	RecallNumber   string `json:"recall_number"`
	Description    string `json:"description"`
	SerialNumber   string `json:"serial_number"`
	Model          string `json:"model,omitempty"`
	Manufacturer   string `json:"manufacturer,omitempty"`
	IncomingStatus string `json:"incoming_status"`
	DateIn         string `json:"date_in"`
	DueDate        string `json:"due_date,omitempty"`
	TechnicianFio  string `json:"technician_fio,omitempty"`
	LocationName   string `json:"location_name,omitempty"`
	EmployeeInFio  string `json:"employee_in_fio,omitempty"`

	OutgoingID         *uint64 `json:"outgoing_id,omitempty"`
	OutgoingStatus     string  `json:"outgoing_status,omitempty"`
	DateOut            string  `json:"date_out,omitempty"`
	CalibrationDueDate string  `json:"calibration_due_date,omitempty"`
	CycleTime          *int    `json:"cycle_time,omitempty"`
	CTReqd             *int    `json:"ct_reqd,omitempty"`
	Overdue            *bool   `json:"overdue,omitempty"`
	EmployeeOutFio     string  `json:"employee_out_fio,omitempty"`
}
