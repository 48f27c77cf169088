package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"hireflow_backend/internal/config"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"
	"hireflow_backend/internal/storage"
	"hireflow_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"
)

// ============================================
// UPLOAD SERVICE
// ============================================

type UploadService interface {
	// UploadResume сохраняет PDF и записывает ссылку в профиль студента
	UploadResume(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.UploadResponse, error)
	// UploadBrochure сохраняет документ и записывает ссылку в drive
	UploadBrochure(ctx context.Context, db *gorm.DB, userID, driveID string, file *multipart.FileHeader) (*dto.UploadResponse, error)
	// UploadOfferLetter только сохраняет документ; ссылка уходит в issue offers
	UploadOfferLetter(ctx context.Context, db *gorm.DB, userID, driveID string, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

// ModuleConfig - ограничения для одного вида документа
type ModuleConfig struct {
	AllowedTypes []string // MIME-типы
	MaxFileSize  int64
}

type UploadConfig struct {
	Modules map[storage.Kind]*ModuleConfig
}

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// NewUploadConfig - резюме только PDF, остальные документы PDF/DOC/DOCX
func NewUploadConfig(cfg *config.Config) *UploadConfig {
	documents := []string{mimePDF, mimeDOC, mimeDOCX}
	return &UploadConfig{
		Modules: map[storage.Kind]*ModuleConfig{
			storage.KindResume:      {AllowedTypes: []string{mimePDF}, MaxFileSize: cfg.Upload.ResumeMaxSize},
			storage.KindBrochure:    {AllowedTypes: documents, MaxFileSize: cfg.Upload.DocumentMaxSize},
			storage.KindOfferLetter: {AllowedTypes: documents, MaxFileSize: cfg.Upload.DocumentMaxSize},
		},
	}
}

type uploadService struct {
	actors
	studentRepo repositories.StudentRepository
	driveRepo   repositories.DriveRepository
	storage     storage.Storage
	config      *UploadConfig
}

func NewUploadService(
	userRepo repositories.UserRepository,
	studentRepo repositories.StudentRepository,
	driveRepo repositories.DriveRepository,
	store storage.Storage,
	config *UploadConfig,
) UploadService {
	return &uploadService{
		actors:      actors{users: userRepo},
		studentRepo: studentRepo,
		driveRepo:   driveRepo,
		storage:     store,
		config:      config,
	}
}

func (s *uploadService) UploadResume(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	student, err := s.studentRepo.FindByUserID(tx, userID)
	if err != nil {
		return nil, handleStudentProfileError(err)
	}

	resp, err := s.store(ctx, storage.KindResume, student.ID, file)
	if err != nil {
		return nil, err
	}

	student.ResumeLink = resp.URL
	if err := s.studentRepo.Update(tx, student); err != nil {
		s.discard(ctx, resp.Key)
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		s.discard(ctx, resp.Key)
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *uploadService) UploadBrochure(ctx context.Context, db *gorm.DB, userID, driveID string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	drive, err := findOwnedDrive(tx, s.actors, s.driveRepo, userID, driveID)
	if err != nil {
		return nil, err
	}

	resp, err := s.store(ctx, storage.KindBrochure, drive.ID, file)
	if err != nil {
		return nil, err
	}

	drive.BrochureLink = resp.URL
	if err := s.driveRepo.Update(tx, drive); err != nil {
		s.discard(ctx, resp.Key)
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		s.discard(ctx, resp.Key)
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *uploadService) UploadOfferLetter(ctx context.Context, db *gorm.DB, userID, driveID string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	drive, err := findOwnedDrive(db, s.actors, s.driveRepo, userID, driveID)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, storage.KindOfferLetter, drive.ID, file)
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

// store проверяет размер и реальный тип содержимого, затем кладет объект в хранилище
func (s *uploadService) store(ctx context.Context, kind storage.Kind, ownerID string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	module, ok := s.config.Modules[kind]
	if !ok {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown upload kind: %s", kind))
	}
	if file == nil {
		return nil, apperrors.FieldError("file", "This field is required")
	}
	if module.MaxFileSize > 0 && file.Size > module.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge.WithDetails(map[string]int64{"maxSize": module.MaxFileSize})
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	mime, err := detectType(src, module.AllowedTypes)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(kind, ownerID, mime.Extension())
	if err := s.storage.Save(ctx, key, src, file.Size, mime.String()); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save file to storage: %w", err))
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		s.discard(ctx, key)
		return nil, apperrors.InternalError(err)
	}

	return &dto.UploadResponse{
		URL:         url,
		Key:         key,
		Size:        file.Size,
		ContentType: mime.String(),
	}, nil
}

// detectType читает заголовок файла и возвращает курсор в начало
func detectType(src io.ReadSeeker, allowed []string) (*mimetype.MIME, error) {
	mime, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.InternalError(err)
	}

	for _, t := range allowed {
		if mime.Is(t) {
			return mime, nil
		}
	}
	return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]interface{}{
		"detected": mime.String(),
		"allowed":  allowed,
	})
}

func (s *uploadService) discard(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWithError(ctx, "Failed to remove orphaned upload", err, "key", key)
	}
}
