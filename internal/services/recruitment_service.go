package services

import (
	"fmt"
	"time"

	"hireflow_backend/internal/email"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/notify"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// RecruitmentService двигает заявки drive по воронке от имени компании.
// Каждая операция атомарна: одна транзакция на весь набор id.
type RecruitmentService interface {
	Shortlist(db *gorm.DB, userID, driveID string, req *dto.ShortlistRequest) (*dto.ModifiedResult, error)
	AdvanceRound(db *gorm.DB, userID, driveID string, req *dto.AdvanceRoundRequest) (*dto.ModifiedResult, error)
	IssueOffers(db *gorm.DB, userID, driveID string, req *dto.IssueOffersRequest) (*dto.IssueOffersResponse, error)
	ScheduleRound(db *gorm.DB, userID string, req *dto.ScheduleRoundRequest) (*dto.ScheduleRoundResponse, error)
}

type RecruitmentServiceImpl struct {
	actors
	driveRepo       repositories.DriveRepository
	applicationRepo repositories.ApplicationRepository
	offerRepo       repositories.OfferRepository
	notifications   NotificationService
	now             func() time.Time
}

func NewRecruitmentService(
	userRepo repositories.UserRepository,
	driveRepo repositories.DriveRepository,
	applicationRepo repositories.ApplicationRepository,
	offerRepo repositories.OfferRepository,
	notifications NotificationService,
) RecruitmentService {
	return &RecruitmentServiceImpl{
		actors:          actors{users: userRepo},
		driveRepo:       driveRepo,
		applicationRepo: applicationRepo,
		offerRepo:       offerRepo,
		notifications:   notifications,
		now:             time.Now,
	}
}

func (s *RecruitmentServiceImpl) Shortlist(db *gorm.DB, userID, driveID string, req *dto.ShortlistRequest) (*dto.ModifiedResult, error) {
	status := req.Status
	if status == "" {
		status = models.StatusShortlisted
	}
	if !status.IsValid() {
		return nil, apperrors.FieldError("status", "Invalid application status")
	}

	drive, touched, err := s.moveAll(db, userID, driveID, req.ApplicationIDs, status)
	if err != nil {
		return nil, err
	}

	s.notifications.Enqueue(db, notice{
		UserIDs:  studentUserIDs(touched),
		Channels: inAppAndEmail,
		Type:     models.NotificationCritical,
		Title:    "Application update",
		Message:  fmt.Sprintf("Your application for %s at %s is now %s.", drive.Role, companyName(drive), status),
		Payload:  notify.Payload{Template: email.TemplateShortlisted, DriveID: drive.ID},
	}.rows())

	return &dto.ModifiedResult{ModifiedCount: int64(len(touched))}, nil
}

func (s *RecruitmentServiceImpl) AdvanceRound(db *gorm.DB, userID, driveID string, req *dto.AdvanceRoundRequest) (*dto.ModifiedResult, error) {
	if req.RoundIndex == nil || *req.RoundIndex < 0 {
		return nil, apperrors.FieldError("roundIndex", "This field is required")
	}
	idx := *req.RoundIndex

	drive, err := findOwnedDrive(db, s.actors, s.driveRepo, userID, driveID)
	if err != nil {
		return nil, err
	}
	if n := len(drive.RoundStructure); n > 0 && idx >= n {
		return nil, apperrors.FieldError("roundIndex", fmt.Sprintf("Must be between 0 and %d", n-1))
	}

	status := roundStatus(idx)
	_, touched, err := s.moveAll(db, userID, driveID, req.ApplicationIDs, status)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Round %d", idx+1)
	if idx < len(drive.RoundStructure) && drive.RoundStructure[idx].Title != "" {
		title = drive.RoundStructure[idx].Title
	}
	s.notifications.Enqueue(db, notice{
		UserIDs:  studentUserIDs(touched),
		Channels: inAppOnly,
		Type:     models.NotificationInformational,
		Title:    "You moved to the next round",
		Message:  fmt.Sprintf("You have advanced to %s for %s at %s.", title, drive.Role, companyName(drive)),
		Payload:  notify.Payload{Template: email.TemplateGeneric, DriveID: drive.ID},
	}.rows())

	return &dto.ModifiedResult{ModifiedCount: int64(len(touched))}, nil
}

// moveAll переводит заявки drive в status одной транзакцией.
// id, не принадлежащие drive, отбрасываются.
func (s *RecruitmentServiceImpl) moveAll(db *gorm.DB, userID, driveID string, ids []string, status models.ApplicationStatus) (*models.Drive, []models.Application, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	drive, err := findOwnedDrive(tx, s.actors, s.driveRepo, userID, driveID)
	if err != nil {
		return nil, nil, err
	}

	apps, err := s.applicationRepo.FindInDrive(tx, drive.ID, uniqueIDs(ids))
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	for i := range apps {
		if err := s.applicationRepo.UpdateStatus(tx, &apps[i], status, models.ActorCompany); err != nil {
			return nil, nil, handleApplicationError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return drive, apps, nil
}

// IssueOffers сопоставляет ссылки с id по позиции. Пары с чужими id
// и заявки в терминальных статусах пропускаются; повтор id берет ссылку первого вхождения.
func (s *RecruitmentServiceImpl) IssueOffers(db *gorm.DB, userID, driveID string, req *dto.IssueOffersRequest) (*dto.IssueOffersResponse, error) {
	if len(req.OfferLetterLinks) != len(req.ApplicationIDs) {
		return nil, apperrors.FieldError("offerLetterLinks", "Must have one link per application id")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	drive, err := findOwnedDrive(tx, s.actors, s.driveRepo, userID, driveID)
	if err != nil {
		return nil, err
	}

	apps, err := s.applicationRepo.FindInDrive(tx, drive.ID, uniqueIDs(req.ApplicationIDs))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byID := make(map[string]*models.Application, len(apps))
	for i := range apps {
		byID[apps[i].ID] = &apps[i]
	}

	now := s.now()
	resp := &dto.IssueOffersResponse{Offers: make([]models.Offer, 0, len(apps))}
	var offered []models.Application
	for i, id := range req.ApplicationIDs {
		app, ok := byID[id]
		if !ok || !canOffer(app.Status) {
			continue
		}
		delete(byID, id)
		offer, err := s.offerRepo.Upsert(tx, app.ID, req.OfferLetterLinks[i], now)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if err := s.applicationRepo.UpdateStatus(tx, app, models.StatusOffered, models.ActorCompany); err != nil {
			return nil, handleApplicationError(err)
		}
		resp.Offers = append(resp.Offers, *offer)
		offered = append(offered, *app)
	}
	resp.ModifiedCount = int64(len(resp.Offers))

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]models.Notification, 0, len(offered)*len(inAppAndEmail))
	for i, app := range offered {
		if app.Student == nil {
			continue
		}
		items = append(items, notice{
			UserIDs:  []string{app.Student.UserID},
			Channels: inAppAndEmail,
			Type:     models.NotificationCritical,
			Title:    "You have received an offer",
			Message:  fmt.Sprintf("%s has issued you an offer for %s.", companyName(drive), drive.Role),
			Payload: notify.Payload{
				Template: email.TemplateOfferIssued,
				Link:     resp.Offers[i].OfferLetterLink,
				DriveID:  drive.ID,
			},
		}.rows()...)
	}
	s.notifications.Enqueue(db, items)

	return resp, nil
}

func (s *RecruitmentServiceImpl) ScheduleRound(db *gorm.DB, userID string, req *dto.ScheduleRoundRequest) (*dto.ScheduleRoundResponse, error) {
	if req.RoundIndex == nil {
		return nil, apperrors.FieldError("roundIndex", "This field is required")
	}
	idx := *req.RoundIndex

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	drive, err := findOwnedDrive(tx, s.actors, s.driveRepo, userID, req.DriveID)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(drive.RoundStructure) {
		return nil, apperrors.ErrRoundNotFound
	}

	round := &drive.RoundStructure[idx]
	round.SchedulingInfo = mergeSchedule(round.SchedulingInfo, req)
	if err := s.driveRepo.Update(tx, drive); err != nil {
		return nil, apperrors.InternalError(err)
	}

	recipients, err := s.applicationRepo.StudentUserIDsByDrive(tx, drive.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifications.Enqueue(db, notice{
		UserIDs:  recipients,
		Channels: inAppAndEmail,
		Type:     models.NotificationInformational,
		Title:    "Round scheduled",
		Message:  scheduleMessage(drive, round),
		Payload: notify.Payload{
			Template: email.TemplateRoundScheduled,
			Link:     round.SchedulingInfo.Link,
			DriveID:  drive.ID,
			Details:  scheduleDetails(round.SchedulingInfo),
		},
	}.rows())

	return &dto.ScheduleRoundResponse{Round: *round, NotifiedCount: len(recipients)}, nil
}

// mergeSchedule - пустые поля запроса не затирают сохраненные
func mergeSchedule(current *models.SchedulingInfo, req *dto.ScheduleRoundRequest) *models.SchedulingInfo {
	merged := models.SchedulingInfo{}
	if current != nil {
		merged = *current
	}
	if req.Date != nil {
		merged.Date = req.Date
	}
	if req.Venue != "" {
		merged.Venue = req.Venue
	}
	if req.Link != "" {
		merged.Link = req.Link
	}
	if req.Mode != "" {
		merged.Mode = req.Mode
	}
	return &merged
}

func scheduleMessage(drive *models.Drive, round *models.Round) string {
	msg := fmt.Sprintf("%s for %s at %s has been scheduled", round.Title, drive.Role, companyName(drive))
	if info := round.SchedulingInfo; info != nil && info.Date != nil {
		msg += " on " + info.Date.Format("02 Jan 2006 15:04")
	}
	return msg + "."
}

func scheduleDetails(info *models.SchedulingInfo) map[string]string {
	details := map[string]string{}
	if info.Date != nil {
		details["Date"] = info.Date.Format(time.RFC1123)
	}
	if info.Venue != "" {
		details["Venue"] = info.Venue
	}
	if info.Mode != "" {
		details["Mode"] = string(info.Mode)
	}
	return details
}

func studentUserIDs(apps []models.Application) []string {
	ids := make([]string, 0, len(apps))
	for _, app := range apps {
		if app.Student != nil {
			ids = append(ids, app.Student.UserID)
		}
	}
	return uniqueIDs(ids)
}
