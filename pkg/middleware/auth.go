package middleware

import (
	"context"
	"net/http"
	"strings"

	"calibration-system/pkg/contextkeys"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/service"
	"calibration-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth проверяет Bearer-токен и кладёт идентичность актора в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, apperrors.ErrEmptyAuthHeader.Error(), nil, nil), m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, apperrors.ErrInvalidAuthHeader.Error(), nil, nil), m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, err.Error(), nil, nil), m.logger)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, apperrors.ErrTokenIsNotAccess.Error(), nil, nil), m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserRoleKey, claims.Role)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRole пропускает только акторов с указанной ролью; применяется после Auth.
func (m *AuthMiddleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actorRole, err := utils.GetUserRoleFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.NewAuthenticationError("Не удалось определить роль пользователя"), m.logger)
			}
			if actorRole != role {
				return utils.ErrorResponse(c, apperrors.NewForbiddenError("Операция доступна только роли '"+role+"'"), m.logger)
			}
			return next(c)
		}
	}
}
