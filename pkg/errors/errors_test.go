package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NewValidationError("плохой запрос", nil), http.StatusBadRequest},
		{NewAuthenticationError("неверный PIN"), http.StatusUnauthorized},
		{NewForbiddenError("нет доступа"), http.StatusForbidden},
		{NewNotFoundError("не найдено"), http.StatusNotFound},
		{NewConflictError("дубликат"), http.StatusConflict},
	}
	for _, tc := range cases {
		assert.True(t, IsCode(tc.err, tc.code), tc.err.Error())
	}
}

func TestIsCodeRejectsForeignErrors(t *testing.T) {
	assert.False(t, IsCode(fmt.Errorf("обычная ошибка"), http.StatusNotFound))
	assert.False(t, IsCode(nil, http.StatusNotFound))
	assert.False(t, IsCode(NewNotFoundError("не найдено"), http.StatusConflict))
}

func TestHttpErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("обрыв соединения")
	err := NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка", cause, nil)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "обрыв соединения")
}

func TestWithDetails(t *testing.T) {
	err := NewValidationError("Не заполнены обязательные поля", nil).
		WithDetails(map[string]string{"serial_number": "обязателен"})
	assert.Equal(t, "обязателен", err.Details["serial_number"])
}
