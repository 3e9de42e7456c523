package dto

type DashboardCountersDTO struct {
	ForConfirmation    uint64 `json:"for_confirmation"`
	PendingCalibration uint64 `json:"pending_calibration"`
	ForPickup          uint64 `json:"for_pickup"`
	Completed          uint64 `json:"completed"`
	Overdue            uint64 `json:"overdue"`
}
