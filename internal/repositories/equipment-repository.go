package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"calibration-system/internal/entities"
	db "calibration-system/internal/infrastructure/bd"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const equipmentTable = "equipment"

const equipmentColumns = `id, recall_number, serial_number, description, manufacturer, model,
	process_range_min, process_range_max, next_calibration_due, status, custodian_id,
	created_at, updated_at, deleted_at`

var (
	equipmentAllowedFilterFields = map[string]string{"status": "e.status"}
	equipmentAllowedSortFields   = map[string]string{"id": "e.id", "recall_number": "e.recall_number", "created_at": "e.created_at"}
)

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindByRecallNumber(ctx context.Context, recallNumber string) (*entities.Equipment, error)
	FindBySerialNumber(ctx context.Context, serialNumber string) (*entities.Equipment, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, equipment entities.Equipment) (*entities.Equipment, error)
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	UpdateInTx(ctx context.Context, tx pgx.Tx, id uint64, equipment entities.Equipment) error
	ExistsByRecallNumber(ctx context.Context, recallNumber string) (bool, error)
	HardDeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.RecallNumber, &e.SerialNumber, &e.Description, &e.Manufacturer, &e.Model,
		&e.ProcessRangeMin, &e.ProcessRangeMax, &e.NextCalibrationDue, &e.Status, &e.CustodianID,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования equipment: %w", err)
	}
	return &e, nil
}

func (r *EquipmentRepository) listParamsWhitelist() map[string]string {
	allowed := make(map[string]string, len(equipmentAllowedFilterFields)+len(equipmentAllowedSortFields))
	for k, v := range equipmentAllowedFilterFields {
		allowed[k] = v
	}
	for k, v := range equipmentAllowedSortFields {
		allowed[k] = v
	}
	return allowed
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	allowed := r.listParamsWhitelist()

	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().
		From(equipmentTable + " AS e").
		Where("e.deleted_at IS NULL")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"e.recall_number": pattern},
			sq.ILike{"e.serial_number": pattern},
			sq.ILike{"e.description": pattern},
		})
	}

	// В подсчёт уходят только фильтры, без сортировки и пагинации.
	countQuery, countArgs, err := db.ApplyListParams(base, types.Filter{Filter: filter.Filter}, allowed).
		Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета оборудования: %w", err)
	}
	if total == 0 {
		return []entities.Equipment{}, 0, nil
	}

	query, args, err := db.ApplyListParams(base, filter, allowed).
		Columns(equipmentColumns).
		OrderBy("e.id DESC").
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.Equipment, 0)
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *eq)
	}
	return items, total, rows.Err()
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL`, equipmentColumns, equipmentTable)
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) FindByRecallNumber(ctx context.Context, recallNumber string) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE recall_number = $1 AND deleted_at IS NULL`, equipmentColumns, equipmentTable)
	return scanEquipment(r.storage.QueryRow(ctx, query, recallNumber))
}

func (r *EquipmentRepository) FindBySerialNumber(ctx context.Context, serialNumber string) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE serial_number = $1 AND deleted_at IS NULL ORDER BY id LIMIT 1`, equipmentColumns, equipmentTable)
	return scanEquipment(r.storage.QueryRow(ctx, query, serialNumber))
}

func (r *EquipmentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, equipment entities.Equipment) (*entities.Equipment, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (recall_number, serial_number, description, manufacturer, model,
			process_range_min, process_range_max, next_calibration_due, status, custodian_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, equipmentTable, equipmentColumns)
	row := tx.QueryRow(ctx, query,
		equipment.RecallNumber, equipment.SerialNumber, equipment.Description, equipment.Manufacturer, equipment.Model,
		equipment.ProcessRangeMin, equipment.ProcessRangeMax, equipment.NextCalibrationDue, equipment.Status, equipment.CustodianID,
	)
	created, err := scanEquipment(row)
	if err != nil && IsUniqueViolation(err, "equipment_recall_number_key") {
		return nil, apperrors.NewConflictError("Оборудование с таким recall-номером уже существует")
	}
	return created, err
}

// FindForUpdateInTx берёт строку под блокировку: merge-политика "заполнить,
// если пусто" должна применяться без потерянных обновлений.
func (r *EquipmentRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, equipmentColumns, equipmentTable)
	return scanEquipment(tx.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, id uint64, equipment entities.Equipment) error {
	updateBuilder := sq.Update(equipmentTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("recall_number", equipment.RecallNumber).
		Set("serial_number", equipment.SerialNumber).
		Set("description", equipment.Description).
		Set("manufacturer", equipment.Manufacturer).
		Set("model", equipment.Model).
		Set("process_range_min", equipment.ProcessRangeMin).
		Set("process_range_max", equipment.ProcessRangeMax).
		Set("next_calibration_due", equipment.NextCalibrationDue).
		Set("status", equipment.Status).
		Set("custodian_id", equipment.CustodianID).
		Set("updated_at", sq.Expr("NOW()"))

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return err
	}
	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		if IsUniqueViolation(err, "equipment_recall_number_key") {
			return apperrors.NewConflictError("Оборудование с таким recall-номером уже существует")
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ExistsByRecallNumber учитывает и архивные строки: recall-номер обязан быть
// уникален на всю историю.
func (r *EquipmentRepository) ExistsByRecallNumber(ctx context.Context, recallNumber string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE recall_number = $1)`, equipmentTable)
	if err := r.storage.QueryRow(ctx, query, recallNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *EquipmentRepository) HardDeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, equipmentTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
