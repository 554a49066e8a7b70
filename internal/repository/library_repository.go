package repository

import (
	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"gorm.io/gorm"
)

type LibraryRepository struct {
	DB *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) *LibraryRepository {
	return &LibraryRepository{DB: db}
}

func (r *LibraryRepository) CreateFile(f *model.LibraryFile) error {
	return r.DB.Create(f).Error
}

func (r *LibraryRepository) FindFileByID(id string) (*model.LibraryFile, error) {
	var f model.LibraryFile
	err := r.DB.First(&f, "id = ?", id).Error
	return &f, err
}

func (r *LibraryRepository) ListFiles(page, limit int) ([]model.LibraryFile, int64, error) {
	var files []model.LibraryFile
	var total int64

	if err := r.DB.Model(&model.LibraryFile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&files).Error
	return files, total, err
}

func (r *LibraryRepository) ListByOwner(ownerID uint) ([]model.LibraryFile, error) {
	var files []model.LibraryFile
	err := r.DB.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *LibraryRepository) DeleteFile(id string) error {
	return r.DB.Delete(&model.LibraryFile{}, "id = ?", id).Error
}

// CreateShare inserts a grant. The unique index on (file, recipient)
// rejects a concurrent duplicate as util.ErrDuplicateKey; the in-code
// ShareExists check in the service is a fast path only.
func (r *LibraryRepository) CreateShare(s *model.FileShare) error {
	return translateDuplicate(r.DB.Create(s).Error)
}

func (r *LibraryRepository) ShareExists(fileID string, targetPublicID int) (bool, error) {
	var count int64
	err := r.DB.Model(&model.FileShare{}).
		Where("file_id = ? AND shared_with_public_id = ?", fileID, targetPublicID).
		Count(&count).Error
	return count > 0, err
}

// SharesFor lists grants addressed to a recipient, newest first.
func (r *LibraryRepository) SharesFor(targetPublicID int) ([]model.FileShare, error) {
	var shares []model.FileShare
	err := r.DB.Where("shared_with_public_id = ?", targetPublicID).
		Order("shared_at DESC").
		Find(&shares).Error
	return shares, err
}
