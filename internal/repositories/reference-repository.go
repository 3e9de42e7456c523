package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"calibration-system/internal/entities"
	apperrors "calibration-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Справочники (департамент, локация, площадка) — только чтение: существование
// и отображаемое имя. Имена кешируются в Redis.

const referenceCacheTTL = time.Minute * 10

type ReferenceRepositoryInterface interface {
	FindDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	FindLocation(ctx context.Context, id uint64) (*entities.Location, error)
	FindPlant(ctx context.Context, id uint64) (*entities.Plant, error)
}

type ReferenceRepository struct {
	storage *pgxpool.Pool
	cache   CacheRepositoryInterface
	logger  *zap.Logger
}

func NewReferenceRepository(storage *pgxpool.Pool, cache CacheRepositoryInterface, logger *zap.Logger) ReferenceRepositoryInterface {
	return &ReferenceRepository{storage: storage, cache: cache, logger: logger}
}

func (r *ReferenceRepository) cachedName(ctx context.Context, key string) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	name, err := r.cache.Get(ctx, key)
	if err != nil {
		return "", false
	}
	return name, true
}

func (r *ReferenceRepository) storeName(ctx context.Context, key, name string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, name, referenceCacheTTL); err != nil {
		r.logger.Warn("не удалось записать справочник в кеш", zap.String("key", key), zap.Error(err))
	}
}

func (r *ReferenceRepository) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	cacheKey := fmt.Sprintf("ref:department:%d", id)
	if name, ok := r.cachedName(ctx, cacheKey); ok {
		return &entities.Department{ID: id, Name: name}, nil
	}

	var d entities.Department
	err := r.storage.QueryRow(ctx, `SELECT id, name FROM departments WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска департамента: %w", err)
	}
	r.storeName(ctx, cacheKey, d.Name)
	return &d, nil
}

func (r *ReferenceRepository) FindLocation(ctx context.Context, id uint64) (*entities.Location, error) {
	// В кешируемом значении вместе с именем едет plant_id: "<plant_id>|<name>".
	cacheKey := fmt.Sprintf("ref:location:%d", id)
	if cached, ok := r.cachedName(ctx, cacheKey); ok {
		if plantPart, name, found := strings.Cut(cached, "|"); found {
			if plantID, err := strconv.ParseUint(plantPart, 10, 64); err == nil {
				return &entities.Location{ID: id, Name: name, PlantID: plantID}, nil
			}
		}
	}

	var l entities.Location
	err := r.storage.QueryRow(ctx, `SELECT id, name, plant_id FROM locations WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.PlantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска локации: %w", err)
	}
	r.storeName(ctx, cacheKey, fmt.Sprintf("%d|%s", l.PlantID, l.Name))
	return &l, nil
}

func (r *ReferenceRepository) FindPlant(ctx context.Context, id uint64) (*entities.Plant, error) {
	cacheKey := fmt.Sprintf("ref:plant:%d", id)
	if name, ok := r.cachedName(ctx, cacheKey); ok {
		return &entities.Plant{ID: id, Name: name}, nil
	}

	var p entities.Plant
	err := r.storage.QueryRow(ctx, `SELECT id, name FROM plants WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска площадки: %w", err)
	}
	r.storeName(ctx, cacheKey, p.Name)
	return &p, nil
}
