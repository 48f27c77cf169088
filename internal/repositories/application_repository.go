package repositories

import (
	"errors"
	"time"

	"hireflow_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists")
)

// ApplicantFilter - фильтр заявок drive для компании
type ApplicantFilter struct {
	CollegeID string
	Status    models.ApplicationStatus
	Page      Page
}

// ApplicationRepository хранит заявки и их timeline.
// Все методы, меняющие статус, пишут запись timeline через тот же db,
// поэтому вызывающий код передает транзакцию.
type ApplicationRepository interface {
	// Create вставляет заявку и запись timeline #0
	Create(db *gorm.DB, app *models.Application, by models.Actor) error
	// UpdateStatus меняет статус и добавляет запись в конец timeline
	UpdateStatus(db *gorm.DB, app *models.Application, status models.ApplicationStatus, by models.Actor) error

	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindForStudent(db *gorm.DB, id, studentID string) (*models.Application, error)
	FindByStudentAndDrive(db *gorm.DB, studentID, driveID string) (*models.Application, error)
	// MapByStudentForDrives - заявки студента, ключ - driveID
	MapByStudentForDrives(db *gorm.DB, studentID string, driveIDs []string) (map[string]models.Application, error)
	ListByStudent(db *gorm.DB, studentID string, page Page) ([]models.Application, int64, error)

	// FindInDrive отбрасывает id, не принадлежащие drive
	FindInDrive(db *gorm.DB, driveID string, ids []string) ([]models.Application, error)
	ListByDrive(db *gorm.DB, driveID string, filter ApplicantFilter) ([]models.Application, int64, error)
	ListSelectedByDrive(db *gorm.DB, driveID string) ([]models.Application, error)
	Timeline(db *gorm.DB, applicationID string) ([]models.TimelineEntry, error)

	CountByCompany(db *gorm.DB, companyID string, status models.ApplicationStatus) (int64, error)
	StudentUserIDsByDrive(db *gorm.DB, driveID string) ([]string, error)
}

type applicationRepository struct{}

func NewApplicationRepository() ApplicationRepository {
	return &applicationRepository{}
}

func (r *applicationRepository) Create(db *gorm.DB, app *models.Application, by models.Actor) error {
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now()
	}
	if err := db.Omit(clause.Associations).Create(app).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrApplicationExists
		}
		return err
	}

	entry := models.TimelineEntry{
		ApplicationID: app.ID,
		Position:      0,
		Status:        app.Status,
		UpdatedBy:     by,
		UpdatedAt:     app.SubmittedAt,
	}
	if err := db.Create(&entry).Error; err != nil {
		return err
	}
	app.Timeline = []models.TimelineEntry{entry}
	return nil
}

func (r *applicationRepository) UpdateStatus(db *gorm.DB, app *models.Application, status models.ApplicationStatus, by models.Actor) error {
	now := time.Now()

	result := db.Model(&models.Application{}).
		Where("id = ?", app.ID).
		Updates(map[string]interface{}{"status": status, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}

	var next int
	err := db.Model(&models.TimelineEntry{}).
		Where("application_id = ?", app.ID).
		Select("COALESCE(MAX(position), -1) + 1").
		Scan(&next).Error
	if err != nil {
		return err
	}

	entry := models.TimelineEntry{
		ApplicationID: app.ID,
		Position:      next,
		Status:        status,
		UpdatedBy:     by,
		UpdatedAt:     now,
	}
	if err := db.Create(&entry).Error; err != nil {
		return err
	}

	app.Status = status
	app.UpdatedAt = now
	if app.Timeline != nil {
		app.Timeline = append(app.Timeline, entry)
	}
	return nil
}

func preloadTimeline(db *gorm.DB) *gorm.DB {
	return db.Order("application_timeline.position ASC")
}

func (r *applicationRepository) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	err := db.Preload("Timeline", preloadTimeline).
		Preload("Student").Preload("Drive").Preload("College").Preload("Offer").
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindForStudent(db *gorm.DB, id, studentID string) (*models.Application, error) {
	var app models.Application
	err := db.Preload("Timeline", preloadTimeline).
		Preload("Drive").Preload("Drive.Company").Preload("Offer").
		Where("id = ? AND student_id = ?", id, studentID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindByStudentAndDrive(db *gorm.DB, studentID, driveID string) (*models.Application, error) {
	var app models.Application
	err := db.Where("student_id = ? AND drive_id = ?", studentID, driveID).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) MapByStudentForDrives(db *gorm.DB, studentID string, driveIDs []string) (map[string]models.Application, error) {
	result := make(map[string]models.Application, len(driveIDs))
	if len(driveIDs) == 0 {
		return result, nil
	}

	var apps []models.Application
	if err := db.Where("student_id = ? AND drive_id IN ?", studentID, driveIDs).Find(&apps).Error; err != nil {
		return nil, err
	}
	for _, app := range apps {
		result[app.DriveID] = app
	}
	return result, nil
}

func (r *applicationRepository) ListByStudent(db *gorm.DB, studentID string, page Page) ([]models.Application, int64, error) {
	var apps []models.Application
	var total int64

	query := db.Model(&models.Application{}).Where("student_id = ?", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Timeline", preloadTimeline).
		Preload("Drive").Preload("Drive.Company").Preload("Offer").
		Order("submitted_at DESC").
		Scopes(paginate(page)).
		Find(&apps).Error
	return apps, total, err
}

func (r *applicationRepository) FindInDrive(db *gorm.DB, driveID string, ids []string) ([]models.Application, error) {
	var apps []models.Application
	if len(ids) == 0 {
		return apps, nil
	}
	err := db.Preload("Student").
		Where("drive_id = ? AND id IN ?", driveID, ids).
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) ListByDrive(db *gorm.DB, driveID string, filter ApplicantFilter) ([]models.Application, int64, error) {
	var apps []models.Application
	var total int64

	query := db.Model(&models.Application{}).Where("drive_id = ?", driveID)
	if filter.CollegeID != "" {
		query = query.Where("college_id = ?", filter.CollegeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Student").Preload("College").
		Order("submitted_at DESC").
		Scopes(paginate(filter.Page)).
		Find(&apps).Error
	return apps, total, err
}

func (r *applicationRepository) ListSelectedByDrive(db *gorm.DB, driveID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Preload("Student").Preload("Student.User").Preload("College").Preload("Offer").
		Where("drive_id = ? AND status IN ?", driveID, []models.ApplicationStatus{models.StatusOffered, models.StatusAccepted}).
		Order("submitted_at ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) Timeline(db *gorm.DB, applicationID string) ([]models.TimelineEntry, error) {
	var entries []models.TimelineEntry
	err := db.Where("application_id = ?", applicationID).Order("position ASC").Find(&entries).Error
	return entries, err
}

func (r *applicationRepository) CountByCompany(db *gorm.DB, companyID string, status models.ApplicationStatus) (int64, error) {
	var count int64
	query := db.Model(&models.Application{}).
		Joins("JOIN drives ON drives.id = applications.drive_id").
		Where("drives.company_id = ?", companyID)
	if status != "" {
		query = query.Where("applications.status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *applicationRepository) StudentUserIDsByDrive(db *gorm.DB, driveID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.Application{}).
		Joins("JOIN students ON students.id = applications.student_id").
		Where("applications.drive_id = ?", driveID).
		Distinct().
		Pluck("students.user_id", &ids).Error
	return ids, err
}
