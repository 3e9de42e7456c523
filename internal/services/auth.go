package services

import (
	"context"

	"calibration-system/internal/dto"
	"calibration-system/internal/repositories"
	apperrors "calibration-system/pkg/errors"
	pkgservice "calibration-system/pkg/service"
	"calibration-system/pkg/utils"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, payload dto.RefreshDTO) (*dto.TokenPairDTO, error)
}

type AuthService struct {
	employeeRepo repositories.EmployeeRepositoryInterface
	jwtService   pkgservice.JWTService
	logger       *zap.Logger
}

func NewAuthService(employeeRepo repositories.EmployeeRepositoryInterface, jwtService pkgservice.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{employeeRepo: employeeRepo, jwtService: jwtService, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	employee, err := s.employeeRepo.FindByLogin(ctx, payload.Login)
	if err != nil {
		if err == apperrors.ErrNotFound {
			// Одинаковый ответ для неизвестного логина и неверного пароля.
			return nil, apperrors.NewAuthenticationError("Неверный логин или пароль")
		}
		return nil, err
	}
	if err := utils.CheckPasswordHash(payload.Password, employee.PasswordHash); err != nil {
		return nil, apperrors.NewAuthenticationError("Неверный логин или пароль")
	}

	access, refresh, err := s.jwtService.GenerateTokens(employee.ID, employee.Role)
	if err != nil {
		s.logger.Error("ошибка генерации токенов", zap.Error(err), zap.Uint64("employeeId", employee.ID))
		return nil, err
	}

	s.logger.Info("успешный вход", zap.Uint64("employeeId", employee.ID), zap.String("role", employee.Role))
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Refresh(ctx context.Context, payload dto.RefreshDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.NewAuthenticationError("Ожидался refresh-токен")
	}

	// Сотрудника перечитываем: роль могла поменяться с момента выдачи пары.
	employee, err := s.employeeRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewAuthenticationError("Сотрудник не найден")
		}
		return nil, err
	}

	access, refresh, err := s.jwtService.GenerateTokens(employee.ID, employee.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}
