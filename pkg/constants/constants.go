package constants

// --- СТАТУСЫ ВХОДЯЩИХ ЗАПИСЕЙ (Совпадает с кодами в БД) ---
const (
	IncomingStatusForConfirmation    = "for_confirmation"
	IncomingStatusPendingCalibration = "pending_calibration"
	IncomingStatusCompleted          = "completed"
)

// --- СТАТУСЫ ИСХОДЯЩИХ ЗАПИСЕЙ ---
const (
	OutgoingStatusForPickup = "for_pickup"
	OutgoingStatusCompleted = "completed"
)

// --- СТАТУСЫ ОБОРУДОВАНИЯ ---
const (
	EquipmentStatusActive      = "active"
	EquipmentStatusInactive    = "inactive"
	EquipmentStatusMaintenance = "maintenance"
	EquipmentStatusCalibration = "calibration"
	EquipmentStatusRetired     = "retired"
)

// --- РОЛИ СОТРУДНИКОВ ---
const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
	RoleEmployee   = "employee"
)

var IncomingStatuses = []string{
	IncomingStatusForConfirmation,
	IncomingStatusPendingCalibration,
	IncomingStatusCompleted,
}

func IsValidIncomingStatus(code string) bool {
	for _, s := range IncomingStatuses {
		if s == code {
			return true
		}
	}
	return false
}
