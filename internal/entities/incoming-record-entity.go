package entities

import (
	"time"

	"calibration-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type IncomingRecord struct {
	ID           uint64      `json:"id"`
	RecallNumber string      `json:"recall_number"`
	TechnicianID uint64      `json:"technician_id"`
	EquipmentID  uint64      `json:"equipment_id"`
	LocationID   null.Uint64 `json:"location_id"`
	ReceivedByID null.Uint64 `json:"received_by_id"`
	EmployeeInID uint64      `json:"employee_in_id"`

	// Снимок атрибутов оборудования на момент приёмки.
	SerialNumber string      `json:"serial_number"`
	Description  string      `json:"description"`
	Model        null.String `json:"model"`
	Manufacturer null.String `json:"manufacturer"`

	DueDate         null.Time `json:"due_date"`
	CalibrationDate null.Time `json:"calibration_date"`
	ExpectedDueDate null.Time `json:"expected_due_date"`
	DateIn          time.Time `json:"date_in"`
	Status          string    `json:"status"`
	Notes           null.String `json:"notes"`

	types.BaseEntity
	types.SoftDelete
}
