package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"calibration-system/internal/dto"
	"calibration-system/internal/entities"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const outgoingTable = "outgoing_records"

const outgoingColumns = `id, incoming_id, recall_number, calibration_date, calibration_due_date,
	date_out, employee_id, employee_out_id, technician_id, cycle_time,
	ct_reqd, commit_etc, actual_etc, overdue, status,
	created_at, updated_at, deleted_at`

type OutgoingRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, record entities.OutgoingRecord) (*entities.OutgoingRecord, error)
	FindByID(ctx context.Context, id uint64) (*entities.OutgoingRecord, error)
	FindByIncomingID(ctx context.Context, incomingID uint64) (*entities.OutgoingRecord, error)
	FindDetail(ctx context.Context, id uint64) (*dto.OutgoingRecordDTO, error)
	ConfirmPickupInTx(ctx context.Context, tx pgx.Tx, id uint64, employeeOutID uint64) error
	ListByStatus(ctx context.Context, status string, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error)
	ListDueForRecalibration(ctx context.Context, asOf time.Time, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error)
	HardDeleteByIncomingInTx(ctx context.Context, tx pgx.Tx, incomingID uint64) ([]uint64, error)
	CountByStatus(ctx context.Context) (map[string]uint64, error)
	CountOverdue(ctx context.Context) (uint64, error)
}

type OutgoingRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOutgoingRepository(storage *pgxpool.Pool, logger *zap.Logger) OutgoingRepositoryInterface {
	return &OutgoingRepository{storage: storage, logger: logger}
}

func scanOutgoing(row pgx.Row) (*entities.OutgoingRecord, error) {
	var rec entities.OutgoingRecord
	err := row.Scan(
		&rec.ID, &rec.IncomingID, &rec.RecallNumber, &rec.CalibrationDate, &rec.CalibrationDueDate,
		&rec.DateOut, &rec.EmployeeID, &rec.EmployeeOutID, &rec.TechnicianID, &rec.CycleTime,
		&rec.CTReqd, &rec.CommitETC, &rec.ActualETC, &rec.Overdue, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования outgoing_record: %w", err)
	}
	return &rec, nil
}

// CreateInTx создаёт ровно одну исходящую запись на входящую. Уникальное
// ограничение на incoming_id — страховочный механизм против гонки двух
// одновременных подтверждений; вторая вставка получает ConflictError.
func (r *OutgoingRepository) CreateInTx(ctx context.Context, tx pgx.Tx, record entities.OutgoingRecord) (*entities.OutgoingRecord, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (incoming_id, recall_number, calibration_date, calibration_due_date,
			date_out, employee_id, employee_out_id, technician_id, cycle_time,
			ct_reqd, commit_etc, actual_etc, overdue, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s`, outgoingTable, outgoingColumns)
	row := tx.QueryRow(ctx, query,
		record.IncomingID, record.RecallNumber, record.CalibrationDate, record.CalibrationDueDate,
		record.DateOut, record.EmployeeID, record.EmployeeOutID, record.TechnicianID, record.CycleTime,
		record.CTReqd, record.CommitETC, record.ActualETC, record.Overdue, record.Status,
	)
	created, err := scanOutgoing(row)
	if err != nil && IsUniqueViolation(err, "outgoing_records_incoming_id_key") {
		return nil, apperrors.NewConflictError("Для этой записи приёмки выдача уже оформлена")
	}
	return created, err
}

func (r *OutgoingRepository) FindByID(ctx context.Context, id uint64) (*entities.OutgoingRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL`, outgoingColumns, outgoingTable)
	return scanOutgoing(r.storage.QueryRow(ctx, query, id))
}

func (r *OutgoingRepository) FindByIncomingID(ctx context.Context, incomingID uint64) (*entities.OutgoingRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE incoming_id = $1 AND deleted_at IS NULL`, outgoingColumns, outgoingTable)
	return scanOutgoing(r.storage.QueryRow(ctx, query, incomingID))
}

func (r *OutgoingRepository) ConfirmPickupInTx(ctx context.Context, tx pgx.Tx, id uint64, employeeOutID uint64) error {
	result, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET status = $1, employee_out_id = $2, updated_at = NOW()
			WHERE id = $3 AND deleted_at IS NULL`, outgoingTable),
		"completed", employeeOutID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OutgoingRepository) listWhere(ctx context.Context, extraWhere string, extraArgs []interface{}, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error) {
	conditions := []string{"og.deleted_at IS NULL"}
	args := []interface{}{}
	args = append(args, extraArgs...)
	if extraWhere != "" {
		conditions = append(conditions, extraWhere)
	}
	argCounter := len(args) + 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(og.recall_number ILIKE $%[1]d OR inc.description ILIKE $%[1]d OR inc.serial_number ILIKE $%[1]d)", argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total uint64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s og JOIN %s inc ON og.incoming_id = inc.id %s`,
		outgoingTable, incomingTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета записей выдачи: %w", err)
	}
	if total == 0 {
		return []dto.OutgoingRecordDTO{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			og.id, og.incoming_id, og.recall_number, og.status, og.date_out,
			og.calibration_date, og.calibration_due_date, og.cycle_time,
			og.ct_reqd, og.commit_etc, og.actual_etc, og.overdue,
			emp.id, emp.fio,
			eout.id, eout.fio,
			tech.id, tech.fio
		FROM %s og
		JOIN %s inc ON og.incoming_id = inc.id
		JOIN employees emp ON og.employee_id = emp.id
		LEFT JOIN employees eout ON og.employee_out_id = eout.id
		JOIN employees tech ON og.technician_id = tech.id
		%s
		ORDER BY og.date_out DESC, og.id DESC
		%s`, outgoingTable, incomingTable, whereClause, limitClause)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка записей выдачи: %w", err)
	}
	defer rows.Close()

	records := make([]dto.OutgoingRecordDTO, 0)
	for rows.Next() {
		var item dto.OutgoingRecordDTO
		var calDate, calDue sql.NullTime
		var dateOut time.Time
		var ctReqd, commitETC, actualETC null.Int
		var eoutID sql.NullInt64
		var eoutFio sql.NullString

		err := rows.Scan(
			&item.ID, &item.IncomingID, &item.RecallNumber, &item.Status, &dateOut,
			&calDate, &calDue, &item.CycleTime,
			&ctReqd, &commitETC, &actualETC, &item.Overdue,
			&item.Employee.ID, &item.Employee.Fio,
			&eoutID, &eoutFio,
			&item.Technician.ID, &item.Technician.Fio,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования записи выдачи в списке: %w", err)
		}

		item.DateOut = dateOut.Format(time.RFC3339)
		if calDate.Valid {
			item.CalibrationDate = calDate.Time.Format("2006-01-02")
		}
		if calDue.Valid {
			item.CalibrationDueDate = calDue.Time.Format("2006-01-02")
		}
		if ctReqd.Valid {
			item.CTReqd = &ctReqd.Int
		}
		if commitETC.Valid {
			item.CommitETC = &commitETC.Int
		}
		if actualETC.Valid {
			item.ActualETC = &actualETC.Int
		}
		if eoutID.Valid {
			item.EmployeeOut = &dto.ShortEmployeeDTO{ID: uint64(eoutID.Int64), Fio: eoutFio.String}
		}
		records = append(records, item)
	}
	return records, total, rows.Err()
}

func (r *OutgoingRepository) ListByStatus(ctx context.Context, status string, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error) {
	return r.listWhere(ctx, "og.status = $1", []interface{}{status}, filter)
}

// FindDetail возвращает запись выдачи в том же joined-виде, что и списки.
func (r *OutgoingRepository) FindDetail(ctx context.Context, id uint64) (*dto.OutgoingRecordDTO, error) {
	records, _, err := r.listWhere(ctx, "og.id = $1", []interface{}{id}, types.Filter{})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &records[0], nil
}

// ListDueForRecalibration: завершённые записи, у которых срок следующей
// калибровки наступил к asOf.
func (r *OutgoingRepository) ListDueForRecalibration(ctx context.Context, asOf time.Time, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error) {
	return r.listWhere(ctx, "og.status = $1 AND og.calibration_due_date <= $2", []interface{}{"completed", asOf}, filter)
}

// HardDeleteByIncomingInTx удаляет исходящие записи каскада и возвращает их id.
func (r *OutgoingRepository) HardDeleteByIncomingInTx(ctx context.Context, tx pgx.Tx, incomingID uint64) ([]uint64, error) {
	rows, err := tx.Query(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE incoming_id = $1 RETURNING id`, outgoingTable), incomingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *OutgoingRepository) CountByStatus(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.storage.Query(ctx,
		fmt.Sprintf(`SELECT status, COUNT(*) FROM %s WHERE deleted_at IS NULL GROUP BY status`, outgoingTable))
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

func (r *OutgoingRepository) CountOverdue(ctx context.Context) (uint64, error) {
	var total uint64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE overdue = TRUE AND deleted_at IS NULL`, outgoingTable)
	if err := r.storage.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
