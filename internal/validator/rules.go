package validator

import (
	"log"

	"hireflow_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует правила для доменных перечислений.
// Пустые значения пропускаются: для них есть 'required'.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", oneOfString(
		models.UserRoleStudent, models.UserRoleCollege, models.UserRoleCompany,
	))
	mustRegister("is-application-status", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || models.ApplicationStatus(value).IsValid()
	})
	mustRegister("is-drive-status", oneOfString(
		models.DriveStatusDraft, models.DriveStatusActive, models.DriveStatusClosed,
	))
	mustRegister("is-drive-mode", oneOfString(
		models.DriveModeOnCampus, models.DriveModeVirtual, models.DriveModePooled,
	))
	mustRegister("is-round-type", oneOfString(
		models.RoundTypeTest, models.RoundTypeInterview, models.RoundTypeTechnical,
		models.RoundTypeHR, models.RoundTypeCustom,
	))
	mustRegister("is-round-mode", oneOfString(
		models.RoundModeOnline, models.RoundModeOffline, models.RoundModeHybrid,
	))
	mustRegister("is-joining-status", oneOfString(
		models.JoiningPending, models.JoiningJoined, models.JoiningNotJoined,
	))
	mustRegister("is-participation-action", oneOfString("accept", "reject"))
}

func oneOfString[T ~string](allowed ...T) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[string(a)] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, ok := set[value]
		return ok
	}
}
