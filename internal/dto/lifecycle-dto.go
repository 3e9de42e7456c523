package dto

const (
	ArchiveKindArchived     = "archived"
	ArchiveKindForceDeleted = "force_deleted"
)

// ArchiveResultDTO — размеченный результат операции архивации: либо мягкое
// удаление, либо каскадное жёсткое. Булевым флагом их перепутать нельзя.
type ArchiveResultDTO struct {
	Kind               string   `json:"kind"` // "archived" | "force_deleted"
	IncomingID         uint64   `json:"incoming_id"`
	DeletedOutgoingIDs []uint64 `json:"deleted_outgoing_ids,omitempty"`
	DeletedEquipmentID *uint64  `json:"deleted_equipment_id,omitempty"`
}

type RecallNumberDTO struct {
	RecallNumber string `json:"recall_number"`
}
