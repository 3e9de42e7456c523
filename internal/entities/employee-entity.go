package entities

import (
	"calibration-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type Employee struct {
	ID           uint64      `json:"id"`
	Fio          string      `json:"fio"`
	Login        string      `json:"login"`
	PasswordHash string      `json:"-"`
	PinHash      string      `json:"-"`
	Role         string      `json:"role"`
	DepartmentID null.Uint64 `json:"department_id"`

	types.BaseEntity

	// Связанные данные (не колонки в таблице).
	Department *Department `db:"-" json:"department,omitempty"`
}
