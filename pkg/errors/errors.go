package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// HttpError — типизированная ошибка бизнес-уровня. Code попадает в HTTP-статус,
// Message — пользователю, Details — карта "поле -> сообщение" для точечных
// сообщений на клиенте, Err и Context — только в лог.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details map[string]string
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// WithDetails добавляет карту "поле -> сообщение" к ошибке.
func (e *HttpError) WithDetails(details map[string]string) *HttpError {
	e.Details = details
	return e
}

// --- Таксономия ожидаемых исходов ---

// NewValidationError — отсутствующее/некорректное поле или нарушение
// бизнес-правила (несовпадение департаментов, повторное завершение и т.п.).
func NewValidationError(message string, details map[string]string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message, Details: details}
}

// NewAuthenticationError — неверный PIN при подтверждении.
func NewAuthenticationError(message string) *HttpError {
	return &HttpError{Code: http.StatusUnauthorized, Message: message}
}

// NewForbiddenError — нарушение окна владения/статуса при просмотре или правке.
func NewForbiddenError(message string) *HttpError {
	return &HttpError{Code: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *HttpError {
	return &HttpError{Code: http.StatusNotFound, Message: message}
}

// NewConflictError — нарушение уникальности (recall-номер, дубликат исходящей записи).
func NewConflictError(message string) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: message}
}

// IsCode сообщает, является ли err HttpError с данным статусом.
func IsCode(err error, code int) bool {
	httpErr, ok := err.(*HttpError)
	return ok && httpErr.Code == code
}
