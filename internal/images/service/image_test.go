package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	imageserrors "roombook/internal/images/errors"
	"roombook/internal/images/storage"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

type mockImageRepository struct {
	createFunc  func(ctx context.Context, image *model.DisplayImage) error
	replaceFunc func(ctx context.Context, id, filename, caption string) (*model.DisplayImage, error)
	deleteFunc  func(ctx context.Context, id string) (*model.DisplayImage, error)
}

func (m *mockImageRepository) Create(ctx context.Context, image *model.DisplayImage) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, image)
	}
	image.ID = "507f1f77bcf86cd799439066"
	return nil
}

func (m *mockImageRepository) FindByID(ctx context.Context, id string) (*model.DisplayImage, error) {
	return nil, imageserrors.ErrNotFound
}

func (m *mockImageRepository) FindAll(ctx context.Context) ([]*model.DisplayImage, error) {
	return []*model.DisplayImage{}, nil
}

func (m *mockImageRepository) FindActive(ctx context.Context) ([]*model.DisplayImage, error) {
	return []*model.DisplayImage{}, nil
}

func (m *mockImageRepository) SetActive(ctx context.Context, id string, active bool) error {
	return nil
}

func (m *mockImageRepository) ReplaceFile(ctx context.Context, id, filename, caption string) (*model.DisplayImage, error) {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, id, filename, caption)
	}
	return nil, imageserrors.ErrNotFound
}

func (m *mockImageRepository) Delete(ctx context.Context, id string) (*model.DisplayImage, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil, imageserrors.ErrNotFound
}

func newTestService(t *testing.T, repo *mockImageRepository) (ImageService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir)
	if err != nil {
		t.Fatalf("failed to create disk store: %v", err)
	}
	cfg := &config.Config{
		MaxUploadSize: 1024,
		UploadDir:     dir,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewImageService(repo, store, cfg), dir
}

func TestUpload_StoresGeneratedFilename(t *testing.T) {
	svc, dir := newTestService(t, &mockImageRepository{})

	image, err := svc.Upload(context.Background(), "Promo Banner.PNG", "  welcome  ", strings.NewReader("fake png bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if image.Filename == "Promo Banner.PNG" {
		t.Error("stored filename must not be the client-supplied one")
	}
	if filepath.Ext(image.Filename) != ".png" {
		t.Errorf("expected lowercased .png extension, got %q", image.Filename)
	}
	if image.Caption != "welcome" {
		t.Errorf("expected normalized caption, got %q", image.Caption)
	}
	if !image.Active {
		t.Error("new uploads must start active")
	}

	if _, err := os.Stat(filepath.Join(dir, image.Filename)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestUpload_RejectsUnsupportedExtension(t *testing.T) {
	svc, _ := newTestService(t, &mockImageRepository{})

	_, err := svc.Upload(context.Background(), "malware.exe", "", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	svc, dir := newTestService(t, &mockImageRepository{})

	_, err := svc.Upload(context.Background(), "big.png", "", strings.NewReader(strings.Repeat("a", 2048)))
	if err == nil {
		t.Fatal("expected error for oversized upload")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("oversized upload must be cleaned up, found %d files", len(entries))
	}
}

func TestReplace_SwapsStoredFile(t *testing.T) {
	var uploaded *model.DisplayImage
	repo := &mockImageRepository{
		createFunc: func(ctx context.Context, image *model.DisplayImage) error {
			image.ID = "507f1f77bcf86cd799439066"
			uploaded = image
			return nil
		},
	}
	repo.replaceFunc = func(ctx context.Context, id, filename, caption string) (*model.DisplayImage, error) {
		return uploaded, nil
	}

	svc, dir := newTestService(t, repo)

	if _, err := svc.Upload(context.Background(), "promo.jpg", "old", strings.NewReader("old bytes")); err != nil {
		t.Fatalf("unexpected upload error: %v", err)
	}

	image, err := svc.Replace(context.Background(), uploaded.ID, "fresh.png", "  new banner  ", strings.NewReader("new bytes"))
	if err != nil {
		t.Fatalf("unexpected replace error: %v", err)
	}

	if image.Filename == uploaded.Filename {
		t.Error("replacement must store a new file")
	}
	if image.Caption != "new banner" {
		t.Errorf("expected normalized caption, got %q", image.Caption)
	}
	if _, err := os.Stat(filepath.Join(dir, image.Filename)); err != nil {
		t.Errorf("new file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, uploaded.Filename)); !os.IsNotExist(err) {
		t.Errorf("old file must be removed, stat err: %v", err)
	}
}

func TestReplace_UnknownImageCleansUpNewFile(t *testing.T) {
	svc, dir := newTestService(t, &mockImageRepository{})

	_, err := svc.Replace(context.Background(), "507f1f77bcf86cd799439099", "fresh.png", "", strings.NewReader("bytes"))
	if err == nil {
		t.Fatal("expected error for unknown image")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("failed replacement must not leave files, found %d", len(entries))
	}
}

func TestDelete_RemovesStoredFile(t *testing.T) {
	var uploaded *model.DisplayImage
	repo := &mockImageRepository{
		createFunc: func(ctx context.Context, image *model.DisplayImage) error {
			image.ID = "507f1f77bcf86cd799439066"
			uploaded = image
			return nil
		},
	}
	repo.deleteFunc = func(ctx context.Context, id string) (*model.DisplayImage, error) {
		return uploaded, nil
	}

	svc, dir := newTestService(t, repo)

	if _, err := svc.Upload(context.Background(), "promo.jpg", "", strings.NewReader("bytes")); err != nil {
		t.Fatalf("unexpected upload error: %v", err)
	}

	if err := svc.Delete(context.Background(), uploaded.ID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, uploaded.Filename)); !os.IsNotExist(err) {
		t.Error("stored file should be removed after delete")
	}
}
