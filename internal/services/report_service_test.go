package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"calibration-system/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReportRepo struct {
	items      []entities.ReportItem
	lastFilter entities.ReportFilter
}

func (f *fakeReportRepo) GetReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	f.lastFilter = filter
	return f.items, uint64(len(f.items)), nil
}

func sampleReportItem() entities.ReportItem {
	return entities.ReportItem{
		IncomingID:     1,
		RecallNumber:   "PG-2024-00042",
		Description:    "Манометр",
		SerialNumber:   "SN-100",
		Manufacturer:   sql.NullString{String: "WIKA", Valid: true},
		IncomingStatus: "pending_calibration",
		DateIn:         time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		TechnicianFio:  sql.NullString{String: "Рахимов Ф.", Valid: true},
		EmployeeInFio:  sql.NullString{String: "Каримова Н.", Valid: true},

		OutgoingID:     sql.NullInt64{Int64: 5, Valid: true},
		OutgoingStatus: sql.NullString{String: "for_pickup", Valid: true},
		DateOut:        sql.NullTime{Time: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), Valid: true},
		CycleTime:      sql.NullInt64{Int64: 4, Valid: true},
		CTReqd:         sql.NullInt64{Int64: 5, Valid: true},
		Overdue:        sql.NullBool{Bool: false, Valid: true},
	}
}

func TestReportGetReport(t *testing.T) {
	repo := &fakeReportRepo{items: []entities.ReportItem{sampleReportItem()}}
	svc := NewReportService(repo, zap.NewNop())

	items, total, err := svc.GetReport(context.Background(), entities.ReportFilter{Page: 1, PerPage: 50})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, items, 1)

	row := items[0]
	assert.Equal(t, "PG-2024-00042", row.RecallNumber)
	assert.Equal(t, "2024-01-01", row.DateIn)
	assert.Equal(t, "2024-01-05", row.DateOut)
	require.NotNil(t, row.OutgoingID)
	assert.Equal(t, uint64(5), *row.OutgoingID)
	require.NotNil(t, row.CycleTime)
	assert.Equal(t, 4, *row.CycleTime)
	require.NotNil(t, row.Overdue)
	assert.False(t, *row.Overdue)
}

func TestReportNullFieldsStayEmpty(t *testing.T) {
	item := sampleReportItem()
	item.OutgoingID = sql.NullInt64{}
	item.OutgoingStatus = sql.NullString{}
	item.DateOut = sql.NullTime{}
	item.CycleTime = sql.NullInt64{}
	item.Overdue = sql.NullBool{}

	repo := &fakeReportRepo{items: []entities.ReportItem{item}}
	svc := NewReportService(repo, zap.NewNop())

	items, _, err := svc.GetReport(context.Background(), entities.ReportFilter{})
	require.NoError(t, err)
	row := items[0]
	assert.Nil(t, row.OutgoingID)
	assert.Nil(t, row.CycleTime)
	assert.Nil(t, row.Overdue)
	assert.Empty(t, row.DateOut)
	assert.Empty(t, row.OutgoingStatus)
}

func TestReportExportDropsPagination(t *testing.T) {
	repo := &fakeReportRepo{items: []entities.ReportItem{sampleReportItem()}}
	svc := NewReportService(repo, zap.NewNop())

	_, err := svc.GetReportForExport(context.Background(), entities.ReportFilter{Page: 3, PerPage: 50})
	require.NoError(t, err)

	// Экспорт всегда отдаёт полный срез.
	assert.Zero(t, repo.lastFilter.Page)
	assert.Zero(t, repo.lastFilter.PerPage)
	assert.False(t, repo.lastFilter.IgnoreFilters)
}
