package services

import (
	"calibration-system/internal/entities"
	"calibration-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

// Attribution — разрешённые поля авторства записи приёмки.
type Attribution struct {
	TechnicianID uint64
	ReceivedByID null.Uint64
}

// ResolveAttribution применяет политику авторства один раз, на входе в
// submit/edit: актор с ролью техника не может приписать работу другому —
// оба поля принудительно указывают на него самого, что бы ни прислал клиент.
func ResolveAttribution(actor *entities.Employee, technicianID uint64, receivedByID null.Uint64) Attribution {
	if actor != nil && actor.Role == constants.RoleTechnician {
		return Attribution{
			TechnicianID: actor.ID,
			ReceivedByID: null.Uint64From(actor.ID),
		}
	}
	return Attribution{
		TechnicianID: technicianID,
		ReceivedByID: receivedByID,
	}
}
