package services

import (
	"errors"
	"math"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// (maxPage-1)*limit не переполняет int ни при каком допустимом limit
	maxPage = math.MaxInt / maxLimit
)

// pageOf нормализует ?page&limit
func pageOf(q dto.PageQuery) repositories.Page {
	if q.Page <= 0 {
		q.Page = defaultPage
	}
	if q.Page > maxPage {
		q.Page = maxPage
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return repositories.Page{Page: q.Page, Limit: q.Limit}
}

func buildPaginatedResponse(data interface{}, total int64, page repositories.Page) *dto.PaginatedResponse {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int(total / int64(page.Limit))
		if total%int64(page.Limit) != 0 {
			totalPages++
		}
	}
	return &dto.PaginatedResponse{
		Data: data,
		Pagination: dto.Pagination{
			CurrentPage:     page.Page,
			TotalPages:      totalPages,
			TotalItems:      total,
			ItemsPerPage:    page.Limit,
			HasNextPage:     page.Page < totalPages,
			HasPreviousPage: page.Page > 1,
		},
	}
}

// actors загружает пользователя и его организацию.
// Роль уже проверена RequireRoles, здесь только привязка к тенанту.
type actors struct {
	users repositories.UserRepository
}

func (a actors) collegeOf(db *gorm.DB, userID string) (string, error) {
	user, err := a.users.FindByID(db, userID)
	if err != nil {
		return "", handleUserError(err)
	}
	if user.Role != models.UserRoleCollege || user.CollegeID == nil {
		return "", apperrors.ErrInsufficientPermissions
	}
	return *user.CollegeID, nil
}

func (a actors) companyOf(db *gorm.DB, userID string) (string, error) {
	user, err := a.users.FindByID(db, userID)
	if err != nil {
		return "", handleUserError(err)
	}
	if user.Role != models.UserRoleCompany || user.CompanyID == nil {
		return "", apperrors.ErrInsufficientPermissions
	}
	return *user.CompanyID, nil
}

func handleUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NewUnauthorizedError("User not found")
	}
	return apperrors.InternalError(err)
}

// uniqueIDs сохраняет порядок первого вхождения
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
