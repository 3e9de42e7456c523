package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"calibration-system/internal/dto"
	"calibration-system/pkg/constants"
	apperrors "calibration-system/pkg/errors"
	pkgservice "calibration-system/pkg/service"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthServiceForTest(t *testing.T, employeeRepo *fakeEmployeeRepo) *AuthService {
	t.Helper()
	jwtSvc := pkgservice.NewJWTService("test-secret", time.Minute, time.Hour)
	return NewAuthService(employeeRepo, jwtSvc, zap.NewNop())
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()
	admin := testEmployee(t, 1, "admin", constants.RoleAdmin, "1234", nil)
	admin.PasswordHash = mustHash(t, "admin12345")

	t.Run("успешный вход", func(t *testing.T) {
		svc := newAuthServiceForTest(t, newFakeEmployeeRepo(admin))

		pair, err := svc.Login(ctx, dto.LoginDTO{Login: "admin", Password: "admin12345"})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		svc := newAuthServiceForTest(t, newFakeEmployeeRepo(admin))

		_, err := svc.Login(ctx, dto.LoginDTO{Login: "admin", Password: "wrong"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusUnauthorized))
	})

	t.Run("неизвестный логин даёт тот же ответ, что и неверный пароль", func(t *testing.T) {
		svc := newAuthServiceForTest(t, newFakeEmployeeRepo(admin))

		_, errUnknown := svc.Login(ctx, dto.LoginDTO{Login: "ghost", Password: "admin12345"})
		_, errBadPass := svc.Login(ctx, dto.LoginDTO{Login: "admin", Password: "wrong"})
		require.Error(t, errUnknown)
		require.Error(t, errBadPass)
		assert.Equal(t, errBadPass.Error(), errUnknown.Error())
	})
}

func TestAuthRefresh(t *testing.T) {
	ctx := context.Background()
	admin := testEmployee(t, 1, "admin", constants.RoleAdmin, "1234", nil)
	admin.PasswordHash = mustHash(t, "admin12345")

	t.Run("обновление пары по refresh-токену", func(t *testing.T) {
		svc := newAuthServiceForTest(t, newFakeEmployeeRepo(admin))
		pair, err := svc.Login(ctx, dto.LoginDTO{Login: "admin", Password: "admin12345"})
		require.NoError(t, err)

		fresh, err := svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)
		assert.NotEmpty(t, fresh.RefreshToken)
	})

	t.Run("access-токен не принимается вместо refresh", func(t *testing.T) {
		svc := newAuthServiceForTest(t, newFakeEmployeeRepo(admin))
		pair, err := svc.Login(ctx, dto.LoginDTO{Login: "admin", Password: "admin12345"})
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: pair.AccessToken})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusUnauthorized))
	})

	t.Run("мусорный токен отклоняется", func(t *testing.T) {
		svc := newAuthServiceForTest(t, newFakeEmployeeRepo(admin))
		_, err := svc.Refresh(ctx, dto.RefreshDTO{RefreshToken: "not-a-token"})
		require.Error(t, err)
	})
}

func TestResolveAttribution(t *testing.T) {
	technician := testEmployee(t, 20, "f.rakhimov", constants.RoleTechnician, "1111", nil)
	employee := testEmployee(t, 10, "n.karimova", constants.RoleEmployee, "2222", nil)

	t.Run("техник приписывается сам себе", func(t *testing.T) {
		attr := ResolveAttribution(technician, 999, null.Uint64From(999))
		assert.Equal(t, technician.ID, attr.TechnicianID)
		assert.Equal(t, null.Uint64From(technician.ID), attr.ReceivedByID)
	})

	t.Run("остальные роли сохраняют присланные значения", func(t *testing.T) {
		attr := ResolveAttribution(employee, 20, null.Uint64From(30))
		assert.Equal(t, uint64(20), attr.TechnicianID)
		assert.Equal(t, null.Uint64From(30), attr.ReceivedByID)
	})
}
