package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Коды попадают в поле error.code ответа
const (
	// Системные
	CodeInternalError ErrorCode = "INTERNAL_ERROR"

	// Бизнес-логика: состояние заявок, дубликаты, лимиты загрузки
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Аутентификация и авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
)
