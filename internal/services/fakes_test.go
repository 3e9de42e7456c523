package services

import (
	"context"
	"time"

	"calibration-system/internal/dto"
	"calibration-system/internal/entities"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
)

// fakeTxManager прогоняет функцию без реальной транзакции.
type fakeTxManager struct{}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

type fakeEmployeeRepo struct {
	employees map[uint64]*entities.Employee
	byLogin   map[string]*entities.Employee
}

func newFakeEmployeeRepo(employees ...*entities.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{
		employees: make(map[uint64]*entities.Employee),
		byLogin:   make(map[string]*entities.Employee),
	}
	for _, e := range employees {
		f.employees[e.ID] = e
		f.byLogin[e.Login] = e
	}
	return f
}

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id uint64) (*entities.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEmployeeRepo) FindByLogin(ctx context.Context, login string) (*entities.Employee, error) {
	if e, ok := f.byLogin[login]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

type fakeIncomingRepo struct {
	records map[uint64]*entities.IncomingRecord
	nextID  uint64

	recallExists      map[string]bool
	recallAlwaysTaken bool
	intakeCounts      map[uint64]uint64
	softDeleted       map[uint64]bool
	hardDeleted       []uint64
	statusCounts      map[string]uint64
}

func newFakeIncomingRepo(records ...*entities.IncomingRecord) *fakeIncomingRepo {
	f := &fakeIncomingRepo{
		records:      make(map[uint64]*entities.IncomingRecord),
		nextID:       1,
		recallExists: make(map[string]bool),
		intakeCounts: make(map[uint64]uint64),
		softDeleted:  make(map[uint64]bool),
		statusCounts: make(map[string]uint64),
	}
	for _, r := range records {
		f.records[r.ID] = r
		if r.ID >= f.nextID {
			f.nextID = r.ID + 1
		}
	}
	return f
}

func (f *fakeIncomingRepo) CreateInTx(ctx context.Context, tx pgx.Tx, record entities.IncomingRecord) (*entities.IncomingRecord, error) {
	record.ID = f.nextID
	f.nextID++
	f.records[record.ID] = &record
	return &record, nil
}

func (f *fakeIncomingRepo) FindByID(ctx context.Context, id uint64) (*entities.IncomingRecord, error) {
	if r, ok := f.records[id]; ok && !f.softDeleted[id] {
		return r, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeIncomingRepo) FindArchivedByID(ctx context.Context, id uint64) (*entities.IncomingRecord, error) {
	if r, ok := f.records[id]; ok && f.softDeleted[id] {
		return r, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeIncomingRepo) FindDetail(ctx context.Context, id uint64) (*dto.IncomingRecordDTO, error) {
	r, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.IncomingRecordDTO{
		ID:           r.ID,
		RecallNumber: r.RecallNumber,
		SerialNumber: r.SerialNumber,
		Description:  r.Description,
		Status:       r.Status,
		DateIn:       r.DateIn.Format(time.RFC3339),
	}, nil
}

func (f *fakeIncomingRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, id uint64, record entities.IncomingRecord) (*entities.IncomingRecord, error) {
	existing, ok := f.records[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	// Владелец, статус и дата приёмки неизменяемы.
	record.ID = id
	record.EmployeeInID = existing.EmployeeInID
	record.Status = existing.Status
	record.DateIn = existing.DateIn
	f.records[id] = &record
	return &record, nil
}

func (f *fakeIncomingRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	r, ok := f.records[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeIncomingRepo) SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	return f.SetStatus(ctx, id, status)
}

func (f *fakeIncomingRepo) ListForEmployee(ctx context.Context, employeeID uint64, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error) {
	result := []dto.IncomingRecordDTO{}
	for _, r := range f.records {
		if r.EmployeeInID == employeeID && !f.softDeleted[r.ID] {
			item, _ := f.FindDetail(ctx, r.ID)
			result = append(result, *item)
		}
	}
	return result, uint64(len(result)), nil
}

func (f *fakeIncomingRepo) List(ctx context.Context, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error) {
	result := []dto.IncomingRecordDTO{}
	for _, r := range f.records {
		if !f.softDeleted[r.ID] {
			item, _ := f.FindDetail(ctx, r.ID)
			result = append(result, *item)
		}
	}
	return result, uint64(len(result)), nil
}

func (f *fakeIncomingRepo) ExistsByRecallNumber(ctx context.Context, recallNumber string) (bool, error) {
	return f.recallAlwaysTaken || f.recallExists[recallNumber], nil
}

func (f *fakeIncomingRepo) CountByEquipment(ctx context.Context, equipmentID uint64) (uint64, error) {
	if n, ok := f.intakeCounts[equipmentID]; ok {
		return n, nil
	}
	var n uint64
	for _, r := range f.records {
		if r.EquipmentID == equipmentID {
			n++
		}
	}
	return n, nil
}

func (f *fakeIncomingRepo) SoftDelete(ctx context.Context, id uint64) error {
	if _, ok := f.records[id]; !ok {
		return apperrors.ErrNotFound
	}
	f.softDeleted[id] = true
	return nil
}

func (f *fakeIncomingRepo) Restore(ctx context.Context, id uint64) error {
	if !f.softDeleted[id] {
		return apperrors.ErrNotFound
	}
	delete(f.softDeleted, id)
	return nil
}

func (f *fakeIncomingRepo) HardDeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := f.records[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.records, id)
	f.hardDeleted = append(f.hardDeleted, id)
	return nil
}

func (f *fakeIncomingRepo) CountByStatus(ctx context.Context) (map[string]uint64, error) {
	return f.statusCounts, nil
}

type fakeOutgoingRepo struct {
	records    map[uint64]*entities.OutgoingRecord
	byIncoming map[uint64]*entities.OutgoingRecord
	nextID     uint64

	hardDeletedByIncoming []uint64
	statusCounts          map[string]uint64
	overdueCount          uint64
}

func newFakeOutgoingRepo(records ...*entities.OutgoingRecord) *fakeOutgoingRepo {
	f := &fakeOutgoingRepo{
		records:      make(map[uint64]*entities.OutgoingRecord),
		byIncoming:   make(map[uint64]*entities.OutgoingRecord),
		nextID:       1,
		statusCounts: make(map[string]uint64),
	}
	for _, r := range records {
		f.records[r.ID] = r
		f.byIncoming[r.IncomingID] = r
		if r.ID >= f.nextID {
			f.nextID = r.ID + 1
		}
	}
	return f
}

func (f *fakeOutgoingRepo) CreateInTx(ctx context.Context, tx pgx.Tx, record entities.OutgoingRecord) (*entities.OutgoingRecord, error) {
	if _, exists := f.byIncoming[record.IncomingID]; exists {
		return nil, apperrors.NewConflictError("Для этой записи приёмки выдача уже оформлена")
	}
	record.ID = f.nextID
	f.nextID++
	f.records[record.ID] = &record
	f.byIncoming[record.IncomingID] = &record
	return &record, nil
}

func (f *fakeOutgoingRepo) FindByID(ctx context.Context, id uint64) (*entities.OutgoingRecord, error) {
	if r, ok := f.records[id]; ok {
		return r, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeOutgoingRepo) FindByIncomingID(ctx context.Context, incomingID uint64) (*entities.OutgoingRecord, error) {
	if r, ok := f.byIncoming[incomingID]; ok {
		return r, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeOutgoingRepo) FindDetail(ctx context.Context, id uint64) (*dto.OutgoingRecordDTO, error) {
	r, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item := dto.OutgoingRecordDTO{
		ID:           r.ID,
		IncomingID:   r.IncomingID,
		RecallNumber: r.RecallNumber,
		Status:       r.Status,
		DateOut:      r.DateOut.Format(time.RFC3339),
		CycleTime:    r.CycleTime,
		Overdue:      r.Overdue,
	}
	if r.CTReqd.Valid {
		item.CTReqd = &r.CTReqd.Int
	}
	return &item, nil
}

func (f *fakeOutgoingRepo) ConfirmPickupInTx(ctx context.Context, tx pgx.Tx, id uint64, employeeOutID uint64) error {
	r, ok := f.records[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.Status = "completed"
	r.EmployeeOutID = null.Uint64From(employeeOutID)
	return nil
}

func (f *fakeOutgoingRepo) ListByStatus(ctx context.Context, status string, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error) {
	result := []dto.OutgoingRecordDTO{}
	for _, r := range f.records {
		if r.Status == status {
			item, _ := f.FindDetail(ctx, r.ID)
			result = append(result, *item)
		}
	}
	return result, uint64(len(result)), nil
}

func (f *fakeOutgoingRepo) ListDueForRecalibration(ctx context.Context, asOf time.Time, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error) {
	result := []dto.OutgoingRecordDTO{}
	for _, r := range f.records {
		if r.Status == "completed" && r.CalibrationDueDate.Valid && !r.CalibrationDueDate.Time.After(asOf) {
			item, _ := f.FindDetail(ctx, r.ID)
			result = append(result, *item)
		}
	}
	return result, uint64(len(result)), nil
}

func (f *fakeOutgoingRepo) HardDeleteByIncomingInTx(ctx context.Context, tx pgx.Tx, incomingID uint64) ([]uint64, error) {
	ids := []uint64{}
	for id, r := range f.records {
		if r.IncomingID == incomingID {
			ids = append(ids, id)
			delete(f.records, id)
		}
	}
	delete(f.byIncoming, incomingID)
	f.hardDeletedByIncoming = append(f.hardDeletedByIncoming, ids...)
	return ids, nil
}

func (f *fakeOutgoingRepo) CountByStatus(ctx context.Context) (map[string]uint64, error) {
	return f.statusCounts, nil
}

func (f *fakeOutgoingRepo) CountOverdue(ctx context.Context) (uint64, error) {
	return f.overdueCount, nil
}

type fakeEquipmentRepo struct {
	equipment      map[uint64]*entities.Equipment
	byRecall       map[string]*entities.Equipment
	bySerial       map[string]*entities.Equipment
	nextID         uint64
	recallTaken    map[string]bool
	hardDeletedIDs []uint64

	// Первый запрос к ExistsByRecallNumber отвечает "занято".
	recallTakenOnce bool
	recallChecks    int
}

func newFakeEquipmentRepo(items ...*entities.Equipment) *fakeEquipmentRepo {
	f := &fakeEquipmentRepo{
		equipment:   make(map[uint64]*entities.Equipment),
		byRecall:    make(map[string]*entities.Equipment),
		bySerial:    make(map[string]*entities.Equipment),
		nextID:      1,
		recallTaken: make(map[string]bool),
	}
	for _, e := range items {
		f.equipment[e.ID] = e
		if e.RecallNumber.Valid {
			f.byRecall[e.RecallNumber.String] = e
			f.recallTaken[e.RecallNumber.String] = true
		}
		f.bySerial[e.SerialNumber] = e
		if e.ID >= f.nextID {
			f.nextID = e.ID + 1
		}
	}
	return f
}

func (f *fakeEquipmentRepo) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	result := []entities.Equipment{}
	for _, e := range f.equipment {
		result = append(result, *e)
	}
	return result, uint64(len(result)), nil
}

func (f *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	if e, ok := f.equipment[id]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEquipmentRepo) FindByRecallNumber(ctx context.Context, recallNumber string) (*entities.Equipment, error) {
	if e, ok := f.byRecall[recallNumber]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEquipmentRepo) FindBySerialNumber(ctx context.Context, serialNumber string) (*entities.Equipment, error) {
	if e, ok := f.bySerial[serialNumber]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEquipmentRepo) CreateInTx(ctx context.Context, tx pgx.Tx, equipment entities.Equipment) (*entities.Equipment, error) {
	equipment.ID = f.nextID
	f.nextID++
	f.equipment[equipment.ID] = &equipment
	if equipment.RecallNumber.Valid {
		f.byRecall[equipment.RecallNumber.String] = &equipment
		f.recallTaken[equipment.RecallNumber.String] = true
	}
	f.bySerial[equipment.SerialNumber] = &equipment
	return &equipment, nil
}

func (f *fakeEquipmentRepo) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return f.FindEquipment(ctx, id)
}

func (f *fakeEquipmentRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, id uint64, equipment entities.Equipment) error {
	if _, ok := f.equipment[id]; !ok {
		return apperrors.ErrNotFound
	}
	equipment.ID = id
	f.equipment[id] = &equipment
	return nil
}

func (f *fakeEquipmentRepo) ExistsByRecallNumber(ctx context.Context, recallNumber string) (bool, error) {
	f.recallChecks++
	if f.recallTakenOnce && f.recallChecks == 1 {
		return true, nil
	}
	return f.recallTaken[recallNumber], nil
}

func (f *fakeEquipmentRepo) HardDeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := f.equipment[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.equipment, id)
	f.hardDeletedIDs = append(f.hardDeletedIDs, id)
	return nil
}

// fakeRecallIssuer выдаёт фиксированный номер.
type fakeRecallIssuer struct {
	number string
	err    error
}

func (f *fakeRecallIssuer) IssueRecallNumber(ctx context.Context) (string, error) {
	return f.number, f.err
}

// fakeEquipmentService записывает вызовы, чтобы проверять каскадные переходы.
type fakeEquipmentService struct {
	equipment map[uint64]*entities.Equipment

	setStatusCalls []struct {
		AssetID uint64
		Status  string
		NextDue null.Time
	}
	applyUpdateCalls []EquipmentUpdate
	findOrCreateFn   func(update EquipmentUpdate) (*entities.Equipment, bool, error)
}

func newFakeEquipmentService() *fakeEquipmentService {
	return &fakeEquipmentService{equipment: make(map[uint64]*entities.Equipment)}
}

func (f *fakeEquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeEquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeEquipmentService) FindOrCreateInTx(ctx context.Context, tx pgx.Tx, update EquipmentUpdate) (*entities.Equipment, bool, error) {
	if f.findOrCreateFn != nil {
		return f.findOrCreateFn(update)
	}
	e := &entities.Equipment{ID: 1, SerialNumber: update.SerialNumber, Status: "calibration"}
	f.equipment[e.ID] = e
	return e, true, nil
}

func (f *fakeEquipmentService) ApplyCalibrationUpdateInTx(ctx context.Context, tx pgx.Tx, assetID uint64, update EquipmentUpdate) error {
	f.applyUpdateCalls = append(f.applyUpdateCalls, update)
	return nil
}

func (f *fakeEquipmentService) SetStatusInTx(ctx context.Context, tx pgx.Tx, assetID uint64, status string, nextDue null.Time) error {
	f.setStatusCalls = append(f.setStatusCalls, struct {
		AssetID uint64
		Status  string
		NextDue null.Time
	}{assetID, status, nextDue})
	if e, ok := f.equipment[assetID]; ok {
		e.Status = status
		e.NextCalibrationDue = nextDue
	}
	return nil
}
