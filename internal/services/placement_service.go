package services

import (
	"hireflow_backend/internal/export"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PlacementService interface {
	Confirm(db *gorm.DB, userID string, req *dto.ConfirmPlacementRequest) (*models.PlacementRecord, error)
	List(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error)
	Export(db *gorm.DB, userID string) (*export.Table, error)
}

type PlacementServiceImpl struct {
	actors
	applicationRepo repositories.ApplicationRepository
	placementRepo   repositories.PlacementRepository
}

func NewPlacementService(
	userRepo repositories.UserRepository,
	applicationRepo repositories.ApplicationRepository,
	placementRepo repositories.PlacementRepository,
) PlacementService {
	return &PlacementServiceImpl{
		actors:          actors{users: userRepo},
		applicationRepo: applicationRepo,
		placementRepo:   placementRepo,
	}
}

func (s *PlacementServiceImpl) Confirm(db *gorm.DB, userID string, req *dto.ConfirmPlacementRequest) (*models.PlacementRecord, error) {
	if !req.JoiningStatus.IsValid() {
		return nil, apperrors.FieldError("joiningStatus", "Must be one of: Pending, Joined, Not Joined")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	collegeID, err := s.collegeOf(tx, userID)
	if err != nil {
		return nil, err
	}

	app, err := s.applicationRepo.FindByID(tx, req.ApplicationID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	if app.CollegeID != collegeID {
		return nil, apperrors.ErrPlacementForbidden
	}
	if !canConfirmPlacement(app.Status) {
		return nil, apperrors.ErrPlacementWithoutOffer
	}

	record := &models.PlacementRecord{
		StudentID:     app.StudentID,
		DriveID:       app.DriveID,
		CollegeID:     app.CollegeID,
		OfferAccepted: req.JoiningStatus == models.JoiningJoined,
		JoiningStatus: req.JoiningStatus,
	}
	if err := s.placementRepo.Upsert(tx, record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return record, nil
}

func (s *PlacementServiceImpl) List(db *gorm.DB, userID string, q dto.PageQuery) (*dto.PaginatedResponse, error) {
	collegeID, err := s.collegeOf(db, userID)
	if err != nil {
		return nil, err
	}

	page := pageOf(q)
	records, total, err := s.placementRepo.ListByCollege(db, collegeID, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildPaginatedResponse(records, total, page), nil
}

// Export - все размещения колледжа, одна строка на запись
func (s *PlacementServiceImpl) Export(db *gorm.DB, userID string) (*export.Table, error) {
	collegeID, err := s.collegeOf(db, userID)
	if err != nil {
		return nil, err
	}

	records, _, err := s.placementRepo.ListByCollege(db, collegeID, repositories.Page{})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	table := &export.Table{
		Sheet:  "Placements",
		Header: []string{"StudentName", "Branch", "Batch", "CGPA", "Company", "Role", "OfferAccepted", "JoiningStatus"},
		Rows:   make([][]interface{}, 0, len(records)),
	}
	for _, r := range records {
		var name, branch, batch, company, role string
		var cgpa float64
		if r.Student != nil {
			name, branch, batch, cgpa = r.Student.Name, r.Student.Branch, r.Student.Batch, r.Student.CGPA
		}
		if r.Drive != nil {
			role = r.Drive.Role
			if r.Drive.Company != nil {
				company = r.Drive.Company.Name
			}
		}
		table.Rows = append(table.Rows, []interface{}{
			name, branch, batch, cgpa, company, role, export.YesNo(r.OfferAccepted), string(r.JoiningStatus),
		})
	}
	return table, nil
}
