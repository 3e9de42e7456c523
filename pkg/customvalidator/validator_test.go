package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recallPayload struct {
	RecallNumber string `validate:"omitempty,recall_number"`
}

type pinPayload struct {
	Pin string `validate:"required,pin"`
}

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestRecallNumberValidation(t *testing.T) {
	v := newTestValidator(t)

	valid := []string{"CAL-2026-00042", "PG-2024-00001", "ABCDE-1999-99999", ""}
	for _, value := range valid {
		assert.NoError(t, v.Struct(recallPayload{RecallNumber: value}), value)
	}

	invalid := []string{
		"cal-2026-00042",  // строчные буквы
		"C-2026-00042",    // слишком короткий префикс
		"ABCDEF-2026-00042", // слишком длинный префикс
		"CAL-26-00042",    // короткий год
		"CAL-2026-0042",   // четыре цифры вместо пяти
		"CAL-2026-000421", // лишняя цифра
		"CAL 2026 00042",
	}
	for _, value := range invalid {
		assert.Error(t, v.Struct(recallPayload{RecallNumber: value}), value)
	}
}

func TestPinValidation(t *testing.T) {
	v := newTestValidator(t)

	for _, value := range []string{"1234", "12345", "123456"} {
		assert.NoError(t, v.Struct(pinPayload{Pin: value}), value)
	}
	for _, value := range []string{"123", "1234567", "12a4", "    ", "12 34"} {
		assert.Error(t, v.Struct(pinPayload{Pin: value}), value)
	}
}
