package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	StudentService      StudentService
	DriveService        DriveService
	ApplicationService  ApplicationService
	OfferService        OfferService
	CollegeService      CollegeService
	PlacementService    PlacementService
	CompanyService      CompanyService
	RecruitmentService  RecruitmentService
	NotificationService NotificationService
	UploadService       UploadService
}
