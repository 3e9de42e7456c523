package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"calibration-system/internal/dto"
	"calibration-system/internal/entities"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const incomingTable = "incoming_records"

const incomingColumns = `id, recall_number, technician_id, equipment_id, location_id, received_by_id,
	employee_in_id, serial_number, description, model, manufacturer,
	due_date, calibration_date, expected_due_date, date_in, status, notes,
	created_at, updated_at, deleted_at`

var incomingAllowedSortFields = map[string]string{
	"id":            "inc.id",
	"date_in":       "inc.date_in",
	"recall_number": "inc.recall_number",
	"status":        "inc.status",
}

type IncomingRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, record entities.IncomingRecord) (*entities.IncomingRecord, error)
	FindByID(ctx context.Context, id uint64) (*entities.IncomingRecord, error)
	FindArchivedByID(ctx context.Context, id uint64) (*entities.IncomingRecord, error)
	FindDetail(ctx context.Context, id uint64) (*dto.IncomingRecordDTO, error)
	UpdateInTx(ctx context.Context, tx pgx.Tx, id uint64, record entities.IncomingRecord) (*entities.IncomingRecord, error)
	SetStatus(ctx context.Context, id uint64, status string) error
	SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	ListForEmployee(ctx context.Context, employeeID uint64, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error)
	List(ctx context.Context, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error)
	ExistsByRecallNumber(ctx context.Context, recallNumber string) (bool, error)
	CountByEquipment(ctx context.Context, equipmentID uint64) (uint64, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
	HardDeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	CountByStatus(ctx context.Context) (map[string]uint64, error)
}

type IncomingRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewIncomingRepository(storage *pgxpool.Pool, logger *zap.Logger) IncomingRepositoryInterface {
	return &IncomingRepository{storage: storage, logger: logger}
}

func scanIncoming(row pgx.Row) (*entities.IncomingRecord, error) {
	var rec entities.IncomingRecord
	err := row.Scan(
		&rec.ID, &rec.RecallNumber, &rec.TechnicianID, &rec.EquipmentID, &rec.LocationID, &rec.ReceivedByID,
		&rec.EmployeeInID, &rec.SerialNumber, &rec.Description, &rec.Model, &rec.Manufacturer,
		&rec.DueDate, &rec.CalibrationDate, &rec.ExpectedDueDate, &rec.DateIn, &rec.Status, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования incoming_record: %w", err)
	}
	return &rec, nil
}

func (r *IncomingRepository) CreateInTx(ctx context.Context, tx pgx.Tx, record entities.IncomingRecord) (*entities.IncomingRecord, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (recall_number, technician_id, equipment_id, location_id, received_by_id,
			employee_in_id, serial_number, description, model, manufacturer,
			due_date, calibration_date, expected_due_date, date_in, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING %s`, incomingTable, incomingColumns)
	row := tx.QueryRow(ctx, query,
		record.RecallNumber, record.TechnicianID, record.EquipmentID, record.LocationID, record.ReceivedByID,
		record.EmployeeInID, record.SerialNumber, record.Description, record.Model, record.Manufacturer,
		record.DueDate, record.CalibrationDate, record.ExpectedDueDate, record.DateIn, record.Status, record.Notes,
	)
	return scanIncoming(row)
}

func (r *IncomingRepository) FindByID(ctx context.Context, id uint64) (*entities.IncomingRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL`, incomingColumns, incomingTable)
	return scanIncoming(r.storage.QueryRow(ctx, query, id))
}

func (r *IncomingRepository) FindArchivedByID(ctx context.Context, id uint64) (*entities.IncomingRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NOT NULL`, incomingColumns, incomingTable)
	return scanIncoming(r.storage.QueryRow(ctx, query, id))
}

// UpdateInTx перезаписывает изменяемые поля записи. Employee_in, статус и
// date_in этим методом не трогаются: владелец и окно статуса неизменяемы.
func (r *IncomingRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, id uint64, record entities.IncomingRecord) (*entities.IncomingRecord, error) {
	updateBuilder := sq.Update(incomingTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("recall_number", record.RecallNumber).
		Set("technician_id", record.TechnicianID).
		Set("location_id", record.LocationID).
		Set("received_by_id", record.ReceivedByID).
		Set("serial_number", record.SerialNumber).
		Set("description", record.Description).
		Set("model", record.Model).
		Set("manufacturer", record.Manufacturer).
		Set("due_date", record.DueDate).
		Set("calibration_date", record.CalibrationDate).
		Set("expected_due_date", record.ExpectedDueDate).
		Set("notes", record.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Suffix("RETURNING " + incomingColumns)

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanIncoming(tx.QueryRow(ctx, query, args...))
}

func (r *IncomingRepository) SetStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, incomingTable),
		status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *IncomingRepository) SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	result, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, incomingTable),
		status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *IncomingRepository) buildListQuery(filter types.Filter, employeeID uint64) (string, []interface{}) {
	conditions := []string{"inc.deleted_at IS NULL"}
	args := []interface{}{}
	argCounter := 1

	if employeeID != 0 {
		conditions = append(conditions, fmt.Sprintf("inc.employee_in_id = $%d", argCounter))
		args = append(args, employeeID)
		argCounter++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(inc.recall_number ILIKE $%[1]d OR inc.description ILIKE $%[1]d OR inc.serial_number ILIKE $%[1]d OR inc.model ILIKE $%[1]d OR inc.manufacturer ILIKE $%[1]d)",
			argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}

	if status, ok := filter.Filter["status"]; ok {
		conditions = append(conditions, fmt.Sprintf("inc.status = $%d", argCounter))
		args = append(args, status)
		argCounter++
	}
	if from, ok := filter.Filter["date_in_from"]; ok {
		if t, err := time.Parse("2006-01-02", fmt.Sprintf("%v", from)); err == nil {
			conditions = append(conditions, fmt.Sprintf("inc.date_in >= $%d", argCounter))
			args = append(args, t)
			argCounter++
		}
	}
	if to, ok := filter.Filter["date_in_to"]; ok {
		if t, err := time.Parse("2006-01-02", fmt.Sprintf("%v", to)); err == nil {
			// включительно: < следующего дня
			conditions = append(conditions, fmt.Sprintf("inc.date_in < $%d", argCounter))
			args = append(args, t.AddDate(0, 0, 1))
			argCounter++
		}
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *IncomingRepository) list(ctx context.Context, employeeID uint64, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error) {
	whereClause, args := r.buildListQuery(filter, employeeID)

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s AS inc %s", incomingTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета записей приёмки: %w", err)
	}
	if total == 0 {
		return []dto.IncomingRecordDTO{}, 0, nil
	}

	orderByClause := "ORDER BY inc.date_in DESC, inc.id DESC"
	if len(filter.Sort) > 0 {
		sorts := []string{}
		for field, direction := range filter.Sort {
			if dbField, ok := incomingAllowedSortFields[field]; ok {
				order := "ASC"
				if strings.ToLower(direction) == "desc" {
					order = "DESC"
				}
				sorts = append(sorts, fmt.Sprintf("%s %s", dbField, order))
			}
		}
		if len(sorts) > 0 {
			orderByClause = "ORDER BY " + strings.Join(sorts, ", ") + ", inc.id DESC"
		}
	}

	limitClause := ""
	argCounter := len(args) + 1
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			inc.id, inc.recall_number, inc.serial_number, inc.description, inc.model, inc.manufacturer,
			inc.status, inc.date_in, inc.due_date, inc.notes,
			eq.id, eq.recall_number, eq.serial_number, eq.description,
			tech.id, tech.fio,
			emp.id, emp.fio,
			rcv.id, rcv.fio,
			loc.id, loc.name
		FROM %s inc
		JOIN equipment eq ON inc.equipment_id = eq.id
		JOIN employees tech ON inc.technician_id = tech.id
		JOIN employees emp ON inc.employee_in_id = emp.id
		LEFT JOIN employees rcv ON inc.received_by_id = rcv.id
		LEFT JOIN locations loc ON inc.location_id = loc.id
		%s %s %s`, incomingTable, whereClause, orderByClause, limitClause)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка записей приёмки: %w", err)
	}
	defer rows.Close()

	records := make([]dto.IncomingRecordDTO, 0)
	for rows.Next() {
		item, err := scanIncomingDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *item)
	}
	return records, total, rows.Err()
}

func scanIncomingDetail(row pgx.Row) (*dto.IncomingRecordDTO, error) {
	var item dto.IncomingRecordDTO
	var model, manufacturer, notes sql.NullString
	var dateIn time.Time
	var dueDate sql.NullTime
	var eqRecall sql.NullString
	var rcvID, locID sql.NullInt64
	var rcvFio, locName sql.NullString

	err := row.Scan(
		&item.ID, &item.RecallNumber, &item.SerialNumber, &item.Description, &model, &manufacturer,
		&item.Status, &dateIn, &dueDate, &notes,
		&item.Equipment.ID, &eqRecall, &item.Equipment.SerialNumber, &item.Equipment.Description,
		&item.Technician.ID, &item.Technician.Fio,
		&item.EmployeeIn.ID, &item.EmployeeIn.Fio,
		&rcvID, &rcvFio,
		&locID, &locName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования записи приёмки в списке: %w", err)
	}

	item.Model = model.String
	item.Manufacturer = manufacturer.String
	item.Notes = notes.String
	item.DateIn = dateIn.Format(time.RFC3339)
	if dueDate.Valid {
		item.DueDate = dueDate.Time.Format("2006-01-02")
	}
	item.Equipment.RecallNumber = eqRecall.String
	if rcvID.Valid {
		item.ReceivedBy = &dto.ShortEmployeeDTO{ID: uint64(rcvID.Int64), Fio: rcvFio.String}
	}
	if locID.Valid {
		item.Location = &dto.ShortLocationDTO{ID: uint64(locID.Int64), Name: locName.String}
	}
	return &item, nil
}

func (r *IncomingRepository) ListForEmployee(ctx context.Context, employeeID uint64, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error) {
	return r.list(ctx, employeeID, filter)
}

func (r *IncomingRepository) List(ctx context.Context, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error) {
	return r.list(ctx, 0, filter)
}

func (r *IncomingRepository) FindDetail(ctx context.Context, id uint64) (*dto.IncomingRecordDTO, error) {
	query := fmt.Sprintf(`
		SELECT
			inc.id, inc.recall_number, inc.serial_number, inc.description, inc.model, inc.manufacturer,
			inc.status, inc.date_in, inc.due_date, inc.notes,
			eq.id, eq.recall_number, eq.serial_number, eq.description,
			tech.id, tech.fio,
			emp.id, emp.fio,
			rcv.id, rcv.fio,
			loc.id, loc.name
		FROM %s inc
		JOIN equipment eq ON inc.equipment_id = eq.id
		JOIN employees tech ON inc.technician_id = tech.id
		JOIN employees emp ON inc.employee_in_id = emp.id
		LEFT JOIN employees rcv ON inc.received_by_id = rcv.id
		LEFT JOIN locations loc ON inc.location_id = loc.id
		WHERE inc.id = $1 AND inc.deleted_at IS NULL`, incomingTable)
	return scanIncomingDetail(r.storage.QueryRow(ctx, query, id))
}

// ExistsByRecallNumber учитывает и архивные строки.
func (r *IncomingRepository) ExistsByRecallNumber(ctx context.Context, recallNumber string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE recall_number = $1)`, incomingTable)
	if err := r.storage.QueryRow(ctx, query, recallNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *IncomingRepository) CountByEquipment(ctx context.Context, equipmentID uint64) (uint64, error) {
	var total uint64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE equipment_id = $1`, incomingTable)
	if err := r.storage.QueryRow(ctx, query, equipmentID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *IncomingRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, incomingTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *IncomingRepository) Restore(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, incomingTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *IncomingRepository) HardDeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, incomingTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *IncomingRepository) CountByStatus(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.storage.Query(ctx,
		fmt.Sprintf(`SELECT status, COUNT(*) FROM %s WHERE deleted_at IS NULL GROUP BY status`, incomingTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]uint64)
	for rows.Next() {
		var status string
		var count uint64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counters[status] = count
	}
	return counters, rows.Err()
}
