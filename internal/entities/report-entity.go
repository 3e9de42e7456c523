package entities

import (
	"database/sql"
	"time"
)

// ReportFilter — параметры проекции отчёта (входящие ⟕ исходящие).
type ReportFilter struct {
	Statuses      []string
	TechnicianIDs []uint64
	LocationIDs   []uint64
	DateFrom      *time.Time
	DateTo        *time.Time
	Search        string
	SortBy        string
	SortOrder     string
	Page          int
	PerPage       int

	// IgnoreFilters — явный режим экспорта "выгрузить всё, без учёта
	// текущих фильтров". Никогда не включается неявно.
	IgnoreFilters bool
}

// ReportItem — одна строка соединённой проекции.
type ReportItem struct {
	IncomingID     uint64
	RecallNumber   string
	Description    string
	SerialNumber   string
	Model          sql.NullString
	Manufacturer   sql.NullString
	IncomingStatus string
	DateIn         time.Time
	DueDate        sql.NullTime
	TechnicianFio  sql.NullString
	LocationName   sql.NullString
	EmployeeInFio  sql.NullString

	OutgoingID         sql.NullInt64
	OutgoingStatus     sql.NullString
	DateOut            sql.NullTime
	CalibrationDueDate sql.NullTime
	CycleTime          sql.NullInt64
	CTReqd             sql.NullInt64
	Overdue            sql.NullBool
	EmployeeOutFio     sql.NullString
}
