package entities

import (
	"time"

	"calibration-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type OutgoingRecord struct {
	ID                 uint64      `json:"id"`
	IncomingID         uint64      `json:"incoming_id"`
	RecallNumber       string      `json:"recall_number"`
	CalibrationDate    null.Time   `json:"calibration_date"`
	CalibrationDueDate null.Time   `json:"calibration_due_date"`
	DateOut            time.Time   `json:"date_out"`
	EmployeeID         uint64      `json:"employee_id"`     // кто подтвердил калибровку
	EmployeeOutID      null.Uint64 `json:"employee_out_id"` // кто физически забрал прибор
	TechnicianID       uint64      `json:"technician_id"`
	CycleTime          int         `json:"cycle_time"`
	CTReqd             null.Int    `json:"ct_reqd"`
	CommitETC          null.Int    `json:"commit_etc"`
	ActualETC          null.Int    `json:"actual_etc"`
	Overdue            bool        `json:"overdue"`
	Status             string      `json:"status"`

	types.BaseEntity
	types.SoftDelete
}
