package repositories

import (
	"context"
	"fmt"
	"strings"

	"calibration-system/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

var reportAllowedSortFields = map[string]string{
	"incoming_id":   "inc.id",
	"recall_number": "inc.recall_number",
	"date_in":       "inc.date_in",
	"date_out":      "og.date_out",
	"cycle_time":    "og.cycle_time",
	"status":        "inc.status",
}

type ReportRepositoryInterface interface {
	GetReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
}

func NewReportRepository(storage *pgxpool.Pool) ReportRepositoryInterface {
	return &ReportRepository{storage: storage}
}

func buildReportWhere(filter entities.ReportFilter) (string, []interface{}) {
	conditions := []string{"inc.deleted_at IS NULL"}
	args := []interface{}{}
	argCounter := 1

	if filter.IgnoreFilters {
		return "WHERE " + strings.Join(conditions, " AND "), args
	}

	if len(filter.Statuses) > 0 {
		placeholders := []string{}
		for _, s := range filter.Statuses {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argCounter))
			args = append(args, s)
			argCounter++
		}
		conditions = append(conditions, fmt.Sprintf("inc.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.TechnicianIDs) > 0 {
		placeholders := []string{}
		for _, id := range filter.TechnicianIDs {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argCounter))
			args = append(args, id)
			argCounter++
		}
		conditions = append(conditions, fmt.Sprintf("inc.technician_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.LocationIDs) > 0 {
		placeholders := []string{}
		for _, id := range filter.LocationIDs {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argCounter))
			args = append(args, id)
			argCounter++
		}
		conditions = append(conditions, fmt.Sprintf("inc.location_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("inc.date_in >= $%d", argCounter))
		args = append(args, *filter.DateFrom)
		argCounter++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("inc.date_in <= $%d", argCounter))
		args = append(args, *filter.DateTo)
		argCounter++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(inc.recall_number ILIKE $%[1]d OR inc.description ILIKE $%[1]d OR inc.serial_number ILIKE $%[1]d OR inc.model ILIKE $%[1]d OR inc.manufacturer ILIKE $%[1]d)",
			argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *ReportRepository) GetReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	whereClause, args := buildReportWhere(filter)

	fromClause := fmt.Sprintf(`
		FROM incoming_records inc
		LEFT JOIN outgoing_records og ON og.incoming_id = inc.id AND og.deleted_at IS NULL
		LEFT JOIN employees tech ON inc.technician_id = tech.id
		LEFT JOIN employees emp ON inc.employee_in_id = emp.id
		LEFT JOIN employees eout ON og.employee_out_id = eout.id
		LEFT JOIN locations loc ON inc.location_id = loc.id`)

	var total uint64
	if err := r.storage.QueryRow(ctx, "SELECT COUNT(*) "+fromClause+" "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета строк отчета: %w", err)
	}
	if total == 0 {
		return []entities.ReportItem{}, 0, nil
	}

	// Стабильный порядок: выбранная колонка + id как tie-break.
	orderBy := "ORDER BY inc.date_in DESC, inc.id DESC"
	if dbField, ok := reportAllowedSortFields[filter.SortBy]; ok {
		direction := "ASC"
		if strings.ToLower(filter.SortOrder) == "desc" {
			direction = "DESC"
		}
		orderBy = fmt.Sprintf("ORDER BY %s %s, inc.id DESC", dbField, direction)
	}

	limitClause := ""
	if filter.PerPage > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PerPage
		}
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.PerPage, offset)
	}

	query := fmt.Sprintf(`
		SELECT
			inc.id, inc.recall_number, inc.description, inc.serial_number, inc.model, inc.manufacturer,
			inc.status, inc.date_in, inc.due_date,
			tech.fio, loc.name, emp.fio,
			og.id, og.status, og.date_out, og.calibration_due_date,
			og.cycle_time, og.ct_reqd, og.overdue, eout.fio
		%s %s %s %s`, fromClause, whereClause, orderBy, limitClause)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения отчета: %w", err)
	}
	defer rows.Close()

	items := make([]entities.ReportItem, 0)
	for rows.Next() {
		var item entities.ReportItem
		err := rows.Scan(
			&item.IncomingID, &item.RecallNumber, &item.Description, &item.SerialNumber, &item.Model, &item.Manufacturer,
			&item.IncomingStatus, &item.DateIn, &item.DueDate,
			&item.TechnicianFio, &item.LocationName, &item.EmployeeInFio,
			&item.OutgoingID, &item.OutgoingStatus, &item.DateOut, &item.CalibrationDueDate,
			&item.CycleTime, &item.CTReqd, &item.Overdue, &item.EmployeeOutFio,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки отчета: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}
