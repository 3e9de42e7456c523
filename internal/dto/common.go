package dto

type ShortEmployeeDTO struct {
	ID  uint64 `json:"id"`
	Fio string `json:"fio"`
}

type ShortDepartmentDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortLocationDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortEquipmentDTO struct {
	ID           uint64 `json:"id"`
	RecallNumber string `json:"recall_number"`
	SerialNumber string `json:"serial_number"`
	Description  string `json:"description"`
}
