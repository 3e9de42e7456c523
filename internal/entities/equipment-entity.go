package entities

import (
	"calibration-system/pkg/types"

	"github.com/aarondl/null/v8"
)

// Equipment — каноническая запись физического актива. Поля записи приёмки
// дублируются здесь намеренно: снимок на момент приёмки может расходиться
// с текущим состоянием актива.
type Equipment struct {
	ID                 uint64      `json:"id"`
	RecallNumber       null.String `json:"recall_number"`
	SerialNumber       string      `json:"serial_number"`
	Description        string      `json:"description"`
	Manufacturer       null.String `json:"manufacturer"`
	Model              null.String `json:"model"`
	ProcessRangeMin    null.String `json:"process_range_min"`
	ProcessRangeMax    null.String `json:"process_range_max"`
	NextCalibrationDue null.Time   `json:"next_calibration_due"`
	Status             string      `json:"status"`
	CustodianID        null.Uint64 `json:"custodian_id"`

	types.BaseEntity
	types.SoftDelete
}
