package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные ошибки бизнес-логики.
Сервисы возвращают их как есть, хендлеры рендерят через HandleError.
*/

// =========================================================================
// Фабрики
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибку репозитория нужно превратить в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для операций, запрещенных в текущем статусе (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Auth
// =========================================================================

var ErrEmailAlreadyExists = New(CodeAlreadyExists, "auth", "Email already in use", http.StatusConflict)

var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)

// ErrInvalidToken - неверный, просроченный или отозванный токен
var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

var ErrInsufficientPermissions = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

var ErrTooManyRequests = New(CodeTooManyRequests, "auth", "Too many requests, try again later", http.StatusTooManyRequests)

// =========================================================================
// Справочники: колледжи, компании, студенты
// =========================================================================

var ErrCollegeNotFound = New(CodeNotFound, "college", "College not found", http.StatusNotFound)

var ErrCompanyNotFound = New(CodeNotFound, "company", "Company not found", http.StatusNotFound)

// ErrStudentProfileNotFound - у пользователя нет профиля студента
var ErrStudentProfileNotFound = New(CodeNotFound, "student", "Student profile not found", http.StatusNotFound)

// ErrStudentNotFound - студент не найден (или принадлежит другому колледжу)
var ErrStudentNotFound = New(CodeNotFound, "student", "Student not found", http.StatusNotFound)

var ErrResumeRequired = New(CodeInvalidOperation, "student", "Please upload your resume before applying", http.StatusBadRequest)

// =========================================================================
// Drives и участие колледжей
// =========================================================================

var ErrDriveNotFound = New(CodeNotFound, "drive", "Drive not found", http.StatusNotFound)

var ErrDriveNotActive = New(CodeInvalidStatus, "drive", "Drive is not active", http.StatusBadRequest)

// ErrCollegeNotParticipating - колледж студента не принял приглашение на drive
var ErrCollegeNotParticipating = New(CodeForbidden, "drive", "Your college is not participating in this drive", http.StatusForbidden)

var ErrInvitationNotFound = New(CodeNotFound, "drive", "Drive invitation not found", http.StatusNotFound)

var ErrAllCollegesInvited = New(CodeInvalidOperation, "drive", "All selected colleges are already invited", http.StatusBadRequest)

var ErrRoundNotFound = New(CodeNotFound, "drive", "Round not found in drive", http.StatusNotFound)

// =========================================================================
// Applications, offers, placement
// =========================================================================

var ErrApplicationNotFound = New(CodeNotFound, "application", "Application not found", http.StatusNotFound)

// ErrNotEligible - студент не проходит критерии drive; причина кладется в Details
var ErrNotEligible = New(CodeInvalidStatus, "application", "You are not eligible for this drive", http.StatusBadRequest)

var ErrAlreadyApplied = New(CodeConflict, "application", "You have already applied to this drive", http.StatusConflict)

var ErrOfferNotFound = New(CodeNotFound, "offer", "Offer not found", http.StatusNotFound)

var ErrOfferNotIssued = New(CodeInvalidStatus, "offer", "Offer has already been answered", http.StatusBadRequest)

// ErrPlacementWithoutOffer - подтверждать размещение можно только после оффера
var ErrPlacementWithoutOffer = New(CodeInvalidStatus, "placement", "Placement can only be confirmed for an offered application", http.StatusBadRequest)

var ErrPlacementForbidden = New(CodeForbidden, "placement", "Application does not belong to your college", http.StatusForbidden)

var ErrNotificationNotFound = New(CodeNotFound, "notification", "Notification not found", http.StatusNotFound)

// =========================================================================
// Файлы
// =========================================================================

var ErrFileTooLarge = New(CodeLimitExceeded, "upload", "File size exceeds the allowed limit", http.StatusRequestEntityTooLarge)

var ErrInvalidFileType = New(CodeValidationFailed, "upload", "The provided file type is not allowed", http.StatusUnsupportedMediaType)
