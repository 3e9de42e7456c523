package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// recall-номер: PREFIX-YYYY-NNNNN, например CAL-2026-00042.
var recallNumberRegex = regexp.MustCompile(`^[A-Z]{2,5}-\d{4}-\d{5}$`)

func isRecallNumber(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустое значение означает "сгенерировать"
	}
	return recallNumberRegex.MatchString(value)
}

// PIN — ровно 4-6 цифр.
var pinRegex = regexp.MustCompile(`^\d{4,6}$`)

func isPin(fl validator.FieldLevel) bool {
	return pinRegex.MatchString(fl.Field().String())
}

func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("recall_number", isRecallNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("pin", isPin); err != nil {
		return err
	}
	return nil
}
