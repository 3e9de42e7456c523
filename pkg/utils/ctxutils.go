package utils

import (
	"context"

	"calibration-system/pkg/contextkeys"
	apperrors "calibration-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok || role == "" {
		return "", apperrors.ErrForbidden
	}
	return role, nil
}
