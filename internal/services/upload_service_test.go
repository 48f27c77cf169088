package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/storage"
	"hireflow_backend/internal/storage/mocks"
	"hireflow_backend/internal/testutil"
	"hireflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

// fileHeader собирает multipart-форму и возвращает заголовок файла, как это делает gin
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func newUploadFixture(t *testing.T, w *world) (UploadService, *mocks.MockStorage) {
	store := new(mocks.MockStorage)
	cfg := &UploadConfig{Modules: map[storage.Kind]*ModuleConfig{
		storage.KindResume:      {AllowedTypes: []string{mimePDF}, MaxFileSize: 1024},
		storage.KindBrochure:    {AllowedTypes: []string{mimePDF, mimeDOC, mimeDOCX}, MaxFileSize: 4096},
		storage.KindOfferLetter: {AllowedTypes: []string{mimePDF, mimeDOC, mimeDOCX}, MaxFileSize: 4096},
	}}
	return NewUploadService(w.users, w.students, w.drives, store, cfg), store
}

func TestUploadResume_SavesLinkOnStudent(t *testing.T) {
	w := newWorld(t)
	svc, store := newUploadFixture(t, w)
	student := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{Name: "Asha"})

	store.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.Anything, int64(len(pdfBytes)), "application/pdf").Return(nil)
	store.On("GetURL", mock.Anything, mock.AnythingOfType("string")).Return("https://cdn/resumes/asha.pdf", nil)

	resp, err := svc.UploadResume(context.Background(), w.db, student.UserID, fileHeader(t, "resume", "cv.pdf", pdfBytes))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/resumes/asha.pdf", resp.URL)
	assert.Regexp(t, `^resumes/`+student.ID+`/[0-9a-f-]+\.pdf$`, resp.Key)

	var stored models.Student
	require.NoError(t, w.db.First(&stored, "id = ?", student.ID).Error)
	assert.Equal(t, "https://cdn/resumes/asha.pdf", stored.ResumeLink)
	store.AssertExpectations(t)
}

func TestUploadResume_RejectsNonPDFAndLargeFiles(t *testing.T) {
	w := newWorld(t)
	svc, store := newUploadFixture(t, w)
	student := testutil.CreateStudent(t, w.db, w.college.ID, testutil.StudentOpts{})

	_, err := svc.UploadResume(context.Background(), w.db, student.UserID,
		fileHeader(t, "resume", "cv.pdf", []byte("just some plain text pretending to be a pdf")))
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)

	big := append(append([]byte{}, pdfBytes...), bytes.Repeat([]byte("a"), 2048)...)
	_, err = svc.UploadResume(context.Background(), w.db, student.UserID, fileHeader(t, "resume", "cv.pdf", big))
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadBrochure_OwnedDriveOnly(t *testing.T) {
	w := newWorld(t)
	svc, store := newUploadFixture(t, w)
	drive := testutil.CreateDrive(t, w.db, w.company.ID, testutil.DriveOpts{})

	store.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "application/pdf").Return(nil)
	store.On("GetURL", mock.Anything, mock.Anything).Return("https://cdn/brochures/b.pdf", nil)

	_, err := svc.UploadBrochure(context.Background(), w.db, w.otherCompanyUser.ID, drive.ID, fileHeader(t, "brochure", "b.pdf", pdfBytes))
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)

	resp, err := svc.UploadBrochure(context.Background(), w.db, w.companyUser.ID, drive.ID, fileHeader(t, "brochure", "b.pdf", pdfBytes))
	require.NoError(t, err)

	stored, err := w.drives.FindByID(w.db, drive.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.URL, stored.BrochureLink)
}
