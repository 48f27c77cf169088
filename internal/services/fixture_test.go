package services

import (
	"testing"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/testutil"

	"gorm.io/gorm"
)

// world - два колледжа и две компании; college/company - "свои" для теста
type world struct {
	db *gorm.DB

	college      *models.College
	otherCollege *models.College
	company      *models.Company
	otherCompany *models.Company

	collegeUser      *models.User
	otherCollegeUser *models.User
	companyUser      *models.User
	otherCompanyUser *models.User

	users          repositories.UserRepository
	students       repositories.StudentRepository
	orgs           repositories.OrganizationRepository
	drives         repositories.DriveRepository
	participations repositories.ParticipationRepository
	applications   repositories.ApplicationRepository
	offers         repositories.OfferRepository
	placements     repositories.PlacementRepository
	notifications  NotificationService
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db := testutil.NewDB(t)

	w := &world{
		db:             db,
		users:          repositories.NewUserRepository(),
		students:       repositories.NewStudentRepository(),
		orgs:           repositories.NewOrganizationRepository(),
		drives:         repositories.NewDriveRepository(),
		participations: repositories.NewParticipationRepository(),
		applications:   repositories.NewApplicationRepository(),
		offers:         repositories.NewOfferRepository(),
		placements:     repositories.NewPlacementRepository(),
	}
	w.notifications = NewNotificationService(repositories.NewNotificationRepository(), nil)

	w.college = testutil.CreateCollege(t, db, "Pune Institute")
	w.otherCollege = testutil.CreateCollege(t, db, "Delhi Institute")
	w.company = testutil.CreateCompany(t, db, "Acme")
	w.otherCompany = testutil.CreateCompany(t, db, "Globex")

	w.collegeUser = testutil.CreateUser(t, db, models.UserRoleCollege, "tpo@pune.edu", w.college.ID)
	w.otherCollegeUser = testutil.CreateUser(t, db, models.UserRoleCollege, "tpo@delhi.edu", w.otherCollege.ID)
	w.companyUser = testutil.CreateUser(t, db, models.UserRoleCompany, "hr@acme.com", w.company.ID)
	w.otherCompanyUser = testutil.CreateUser(t, db, models.UserRoleCompany, "hr@globex.com", w.otherCompany.ID)
	return w
}

func (w *world) collegeService() CollegeService {
	return NewCollegeService(w.users, w.orgs, w.students, w.drives, w.participations, w.applications, w.placements, w.notifications)
}

func (w *world) companyService() CompanyService {
	return NewCompanyService(w.users, w.orgs, w.drives, w.participations, w.applications, w.offers, w.notifications)
}

func (w *world) recruitmentService() RecruitmentService {
	return NewRecruitmentService(w.users, w.drives, w.applications, w.offers, w.notifications)
}

func (w *world) applicationService() ApplicationService {
	return NewApplicationService(w.students, w.drives, w.participations, w.applications)
}

func (w *world) offerService() OfferService {
	return NewOfferService(w.users, w.students, w.offers, w.applications, w.notifications)
}

func (w *world) placementService() PlacementService {
	return NewPlacementService(w.users, w.applications, w.placements)
}

// activeDrive - активный drive своей компании с принятым участием своего колледжа
func (w *world) activeDrive(t *testing.T, criteria models.EligibilityCriteria, rounds ...models.Round) *models.Drive {
	t.Helper()
	drive := testutil.CreateDrive(t, w.db, w.company.ID, testutil.DriveOpts{Criteria: criteria, Rounds: rounds})
	testutil.CreateParticipation(t, w.db, drive.ID, w.college.ID, models.ParticipationAccepted)
	return drive
}

func (w *world) statusOf(t *testing.T, applicationID string) models.ApplicationStatus {
	t.Helper()
	var app models.Application
	if err := w.db.First(&app, "id = ?", applicationID).Error; err != nil {
		t.Fatalf("load application: %v", err)
	}
	return app.Status
}

func (w *world) timeline(t *testing.T, applicationID string) []models.TimelineEntry {
	t.Helper()
	entries, err := w.applications.Timeline(w.db, applicationID)
	if err != nil {
		t.Fatalf("load timeline: %v", err)
	}
	return entries
}

func (w *world) notificationsFor(t *testing.T, userID string) []models.Notification {
	t.Helper()
	var list []models.Notification
	if err := w.db.Where("user_id = ?", userID).Find(&list).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	return list
}
