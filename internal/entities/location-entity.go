package entities

import "calibration-system/pkg/types"

type Location struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	PlantID uint64 `json:"plant_id"`

	types.BaseEntity

	Plant *Plant `db:"-" json:"plant,omitempty"`
}
