package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryCache - кеш в памяти для проверки работы справочников без Redis.
type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", errors.New("ключ не найден")
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (c *memoryCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func seedLocation(t *testing.T, name string) (locationID, plantID uint64) {
	t.Helper()
	ctx := context.Background()

	err := testPool.QueryRow(ctx, `INSERT INTO plants (name) VALUES ('Завод №1') RETURNING id`).Scan(&plantID)
	require.NoError(t, err)
	err = testPool.QueryRow(ctx,
		`INSERT INTO locations (name, plant_id) VALUES ($1, $2) RETURNING id`, name, plantID).Scan(&locationID)
	require.NoError(t, err)
	return locationID, plantID
}

func TestReferenceRepository_LocationCache(t *testing.T) {
	cleanupTables(t, testPool)
	locationID, plantID := seedLocation(t, "Лаборатория")

	cache := newMemoryCache()
	repo := NewReferenceRepository(testPool, cache, zap.NewNop())
	ctx := context.Background()

	t.Run("первый запрос кладёт локацию в кеш вместе с plant_id", func(t *testing.T) {
		loc, err := repo.FindLocation(ctx, locationID)
		require.NoError(t, err)
		assert.Equal(t, "Лаборатория", loc.Name)
		assert.Equal(t, plantID, loc.PlantID)

		cached, err := cache.Get(ctx, fmt.Sprintf("ref:location:%d", locationID))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d|Лаборатория", plantID), cached)
	})

	t.Run("повторный запрос обслуживается из кеша", func(t *testing.T) {
		// Меняем имя в БД: ответ из кеша его не заметит.
		_, err := testPool.Exec(ctx, `UPDATE locations SET name = 'Цех 9' WHERE id = $1`, locationID)
		require.NoError(t, err)

		loc, err := repo.FindLocation(ctx, locationID)
		require.NoError(t, err)
		assert.Equal(t, "Лаборатория", loc.Name)
		assert.Equal(t, plantID, loc.PlantID)
	})

	t.Run("испорченное значение в кеше уводит запрос в БД", func(t *testing.T) {
		key := fmt.Sprintf("ref:location:%d", locationID)
		require.NoError(t, cache.Set(ctx, key, "мусор-без-разделителя", 0))

		loc, err := repo.FindLocation(ctx, locationID)
		require.NoError(t, err)
		assert.Equal(t, "Цех 9", loc.Name)

		// После похода в БД кеш перезаписан корректным значением.
		cached, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d|Цех 9", plantID), cached)
	})
}
