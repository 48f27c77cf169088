// Package testutil - общие помощники тестов: in-memory БД и фикстуры.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"hireflow_backend/database"
	"hireflow_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB открывает отдельную in-memory SQLite базу на тест и мигрирует схему.
// Одно соединение: все запросы сервиса должны идти через его транзакцию.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func Float(v float64) *float64 { return &v }

func String(v string) *string { return &v }

func CreateCollege(t *testing.T, db *gorm.DB, name string) *models.College {
	t.Helper()
	college := &models.College{Name: name, Location: "Pune", Departments: models.StringList{"CSE", "ECE"}}
	require.NoError(t, db.Create(college).Error)
	return college
}

func CreateCompany(t *testing.T, db *gorm.DB, name string) *models.Company {
	t.Helper()
	company := &models.Company{Name: name, Domain: strings.ToLower(name) + ".com"}
	require.NoError(t, db.Create(company).Error)
	return company
}

// CreateUser - пароль не хешируется, логин в таких тестах не нужен
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole, email string, orgID string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", Role: role}
	switch role {
	case models.UserRoleCollege:
		user.CollegeID = &orgID
	case models.UserRoleCompany:
		user.CompanyID = &orgID
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

type StudentOpts struct {
	Name     string
	CGPA     float64
	Branch   string
	Batch    string
	Verified bool
	Resume   string
}

// CreateStudent создает пользователя-студента и его профиль
func CreateStudent(t *testing.T, db *gorm.DB, collegeID string, opts StudentOpts) *models.Student {
	t.Helper()
	if opts.Name == "" {
		opts.Name = "Student"
	}
	if opts.Branch == "" {
		opts.Branch = "CSE"
	}
	if opts.Batch == "" {
		opts.Batch = "2024"
	}

	user := CreateUser(t, db, models.UserRoleStudent,
		fmt.Sprintf("%s.%d@college.edu", strings.ToLower(strings.ReplaceAll(opts.Name, " ", ".")), time.Now().UnixNano()), "")

	student := &models.Student{
		UserID:     user.ID,
		Name:       opts.Name,
		CollegeID:  collegeID,
		Branch:     opts.Branch,
		Batch:      opts.Batch,
		CGPA:       opts.CGPA,
		ResumeLink: opts.Resume,
		IsVerified: opts.Verified,
	}
	require.NoError(t, db.Omit("User", "College").Create(student).Error)
	student.User = user
	return student
}

type DriveOpts struct {
	Role     string
	Status   models.DriveStatus
	Criteria models.EligibilityCriteria
	Rounds   []models.Round
}

func CreateDrive(t *testing.T, db *gorm.DB, companyID string, opts DriveOpts) *models.Drive {
	t.Helper()
	if opts.Role == "" {
		opts.Role = "Software Engineer"
	}
	if opts.Status == "" {
		opts.Status = models.DriveStatusActive
	}
	drive := &models.Drive{
		CompanyID:      companyID,
		Role:           opts.Role,
		Mode:           models.DriveModeOnCampus,
		Status:         opts.Status,
		Criteria:       opts.Criteria,
		RoundStructure: datatypes.JSONSlice[models.Round](opts.Rounds),
	}
	require.NoError(t, db.Omit("Company").Create(drive).Error)
	return drive
}

func CreateParticipation(t *testing.T, db *gorm.DB, driveID, collegeID string, status models.ParticipationStatus) *models.DriveCollege {
	t.Helper()
	dc := &models.DriveCollege{
		DriveID:             driveID,
		CollegeID:           collegeID,
		ParticipationStatus: status,
		InvitedAt:           time.Now(),
	}
	require.NoError(t, db.Omit("Drive", "College").Create(dc).Error)
	return dc
}

// CreateApplication создает заявку сразу в нужном статусе с одной записью timeline
func CreateApplication(t *testing.T, db *gorm.DB, student *models.Student, driveID string, status models.ApplicationStatus) *models.Application {
	t.Helper()
	now := time.Now()
	app := &models.Application{
		StudentID:   student.ID,
		DriveID:     driveID,
		CollegeID:   student.CollegeID,
		Status:      status,
		SubmittedAt: now,
	}
	require.NoError(t, db.Omit("Timeline", "Student", "Drive", "College", "Offer").Create(app).Error)
	require.NoError(t, db.Create(&models.TimelineEntry{
		ApplicationID: app.ID,
		Position:      0,
		Status:        status,
		UpdatedBy:     models.ActorStudent,
		UpdatedAt:     now,
	}).Error)
	return app
}

// LastTimelineStatus - статус последней записи timeline
func LastTimelineStatus(t *testing.T, db *gorm.DB, applicationID string) models.ApplicationStatus {
	t.Helper()
	var entry models.TimelineEntry
	require.NoError(t, db.Where("application_id = ?", applicationID).Order("position DESC").First(&entry).Error)
	return entry.Status
}
