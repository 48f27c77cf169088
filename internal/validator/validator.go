package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError содержит карту ошибок "поле" -> "сообщение"
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("field '%s': %s", field, e.Errors[field]))
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}

// Validator - обертка над go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// New создает валидатор с json-именами полей и кастомными правилами
func New() *Validator {
	v := validator.New()

	// В сообщениях используем имена из json-тегов DTO, а не имена полей Go
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomRules(v)

	return &Validator{validate: v}
}

// Validate возвращает *ValidationError, если структура невалидна
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	customErrors := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		customErrors[fieldPath(fe)] = errorMessage(fe)
	}
	return &ValidationError{Errors: customErrors}
}

// fieldPath убирает имя корневой структуры: "SubmitRequest.driveId" -> "driveId"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Must be at least %s items/characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "url":
		return "Must be a valid URL"
	case "dive":
		return "Contains an invalid item"
	case "is-application-status":
		return "Must be a valid application status"
	case "is-drive-status":
		return "Must be one of: draft, active, closed"
	case "is-drive-mode":
		return "Must be one of: on-campus, virtual, pooled"
	case "is-round-type":
		return "Must be one of: Test, Interview, Technical, HR, Custom"
	case "is-round-mode":
		return "Must be one of: online, offline, hybrid"
	case "is-joining-status":
		return "Must be one of: Pending, Joined, Not Joined"
	case "is-participation-action":
		return "Must be one of: accept, reject"
	case "is-user-role":
		return "Must be one of: student, college, company"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
