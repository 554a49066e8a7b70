package service

import (
	"context"
	"errors"
	"io"

	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/Harini-0111/electronics-astra-user/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileCatalog is the metadata store for uploaded blobs.
type FileCatalog interface {
	CreateFile(f *model.LibraryFile) error
	FindFileByID(id string) (*model.LibraryFile, error)
	ListFiles(page, limit int) ([]model.LibraryFile, int64, error)
	ListByOwner(ownerID uint) ([]model.LibraryFile, error)
	DeleteFile(id string) error
	CreateShare(s *model.FileShare) error
	ShareExists(fileID string, targetPublicID int) (bool, error)
	SharesFor(targetPublicID int) ([]model.FileShare, error)
}

// BlobStore is the content side of the library.
type BlobStore interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectKey string) error
}

// PublicDirectory resolves share targets and sharer display names.
type PublicDirectory interface {
	FindByPublicID(publicID int) (*model.Student, error)
}

// LibraryService owns the file library: uploads, downloads, owner-only
// deletion, and the share grants that let one student read another's file.
type LibraryService struct {
	Catalog  FileCatalog
	Blobs    BlobStore
	Students PublicDirectory
}

func NewLibraryService(catalog FileCatalog, blobs BlobStore, students PublicDirectory) *LibraryService {
	return &LibraryService{Catalog: catalog, Blobs: blobs, Students: students}
}

// Upload streams the content into the blob store under a fresh object key,
// then records the metadata row. If the metadata insert fails the blob is
// removed again, best effort.
func (s *LibraryService) Upload(ctx context.Context, owner *model.Student, fileName, contentType string, size int64, reader io.Reader) (*model.LibraryFile, error) {
	objectKey := model.GenerateUUID()

	if err := s.Blobs.Upload(ctx, objectKey, reader, size, contentType); err != nil {
		return nil, err
	}

	file := &model.LibraryFile{
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		ObjectKey:   objectKey,
		OwnerID:     owner.ID,
		OwnerName:   owner.Name,
	}
	if owner.PublicID != nil {
		file.OwnerPublicID = *owner.PublicID
	}

	if err := s.Catalog.CreateFile(file); err != nil {
		if delErr := s.Blobs.Delete(ctx, objectKey); delErr != nil {
			logger.Log.Warn("orphaned blob after failed metadata insert",
				zap.String("objectKey", objectKey), zap.Error(delErr))
		}
		return nil, err
	}
	return file, nil
}

// List returns a page of library files, newest first, plus the total count.
func (s *LibraryService) List(page, limit int) ([]model.LibraryFile, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Catalog.ListFiles(page, limit)
}

// MyUploads returns the files the student uploaded, newest first.
func (s *LibraryService) MyUploads(ownerID uint) ([]model.LibraryFile, error) {
	return s.Catalog.ListByOwner(ownerID)
}

// Download resolves the metadata and opens the content stream. The caller
// owns closing the reader.
func (s *LibraryService) Download(ctx context.Context, fileID string) (*model.LibraryFile, io.ReadCloser, error) {
	file, err := s.Catalog.FindFileByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrNotFound
		}
		return nil, nil, err
	}

	stream, err := s.Blobs.Download(ctx, file.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return file, stream, nil
}

// Delete removes a file the requester owns. The blob goes first, the
// metadata second: if the second step fails the leftover is a harmless
// unreferenced blob, never a metadata row pointing at missing content.
func (s *LibraryService) Delete(ctx context.Context, fileID string, requesterID uint) error {
	file, err := s.Catalog.FindFileByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}

	if file.OwnerID != requesterID {
		return util.ErrForbidden
	}

	if err := s.Blobs.Delete(ctx, file.ObjectKey); err != nil {
		return err
	}
	return s.Catalog.DeleteFile(fileID)
}

// Share grants the target student access to the file. The file and the
// target must exist, and a second grant for the same pair is rejected.
// Nothing here verifies the sharer owns the file or blocks self-sharing;
// the grant records whatever sharer id the caller presents.
func (s *LibraryService) Share(fileID string, sharerPublicID, targetPublicID int) (*model.FileShare, error) {
	if _, err := s.Catalog.FindFileByID(fileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	if _, err := s.Students.FindByPublicID(targetPublicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	exists, err := s.Catalog.ShareExists(fileID, targetPublicID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadyShared
	}

	grant := &model.FileShare{
		FileID:             fileID,
		SharedByPublicID:   sharerPublicID,
		SharedWithPublicID: targetPublicID,
	}
	if err := s.Catalog.CreateShare(grant); err != nil {
		// Concurrent duplicate grant lost the unique-index race.
		if errors.Is(err, util.ErrDuplicateKey) {
			return nil, util.ErrAlreadyShared
		}
		return nil, err
	}
	return grant, nil
}

// SharedWithMe lists the files shared with the student, newest grant
// first. Grants whose file has since been deleted are dropped silently.
func (s *LibraryService) SharedWithMe(targetPublicID int) ([]model.SharedFile, error) {
	grants, err := s.Catalog.SharesFor(targetPublicID)
	if err != nil {
		return nil, err
	}

	shared := make([]model.SharedFile, 0, len(grants))
	for _, grant := range grants {
		file, err := s.Catalog.FindFileByID(grant.FileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		entry := model.SharedFile{
			File:     *file,
			SharedBy: grant.SharedByPublicID,
			SharedAt: grant.SharedAt,
		}
		if sharer, err := s.Students.FindByPublicID(grant.SharedByPublicID); err == nil {
			entry.SharerName = sharer.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		shared = append(shared, entry)
	}
	return shared, nil
}
