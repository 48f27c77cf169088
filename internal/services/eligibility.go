package services

import "hireflow_backend/internal/models"

// Причины отказа, в порядке проверки
const (
	ReasonDriveNotActive   = "Drive not available for applications"
	ReasonNotParticipating = "This drive is not available for your college"
	ReasonCGPABelowMinimum = "You do not meet the minimum CGPA requirement"
	ReasonBranchNotAllowed = "Your branch is not eligible for this drive"
	ReasonBatchNotEligible = "Your batch is not eligible for this drive"
)

type EligibilityResult struct {
	Eligible bool
	// Reason - первая нарушенная проверка
	Reason string
}

// EvaluateEligibility - чистая функция без обращений к БД.
// participation может быть nil: колледж не приглашен.
func EvaluateEligibility(student *models.Student, drive *models.Drive, participation *models.DriveCollege) EligibilityResult {
	if !drive.IsActive() {
		return EligibilityResult{Reason: ReasonDriveNotActive}
	}
	if !participation.IsAccepted() || participation.CollegeID != student.CollegeID {
		return EligibilityResult{Reason: ReasonNotParticipating}
	}
	if reason := criteriaFailure(student, drive.Criteria); reason != "" {
		return EligibilityResult{Reason: reason}
	}
	return EligibilityResult{Eligible: true}
}

// criteriaFailure проверяет только критерии drive.
// Порог MinCGPA = 0 действует, отсутствие порога - это nil.
func criteriaFailure(student *models.Student, c models.EligibilityCriteria) string {
	if c.MinCGPA != nil && student.CGPA < *c.MinCGPA {
		return ReasonCGPABelowMinimum
	}
	if len(c.AllowedBranches) > 0 && !c.AllowedBranches.Contains(student.Branch) {
		return ReasonBranchNotAllowed
	}
	if c.HasBatch() && student.Batch != *c.Batch {
		return ReasonBatchNotEligible
	}
	return ""
}
