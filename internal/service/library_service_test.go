package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCatalog struct {
	files  map[string]*model.LibraryFile
	shares []*model.FileShare

	createFileErr  error
	createShareErr error
	deleteCalls    []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{files: make(map[string]*model.LibraryFile)}
}

func (f *fakeCatalog) CreateFile(file *model.LibraryFile) error {
	if f.createFileErr != nil {
		return f.createFileErr
	}
	if file.ID == "" {
		file.ID = model.GenerateUUID()
	}
	f.files[file.ID] = file
	return nil
}

func (f *fakeCatalog) FindFileByID(id string) (*model.LibraryFile, error) {
	if file, ok := f.files[id]; ok {
		return file, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) ListFiles(page, limit int) ([]model.LibraryFile, int64, error) {
	var out []model.LibraryFile
	for _, file := range f.files {
		out = append(out, *file)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCatalog) ListByOwner(ownerID uint) ([]model.LibraryFile, error) {
	var out []model.LibraryFile
	for _, file := range f.files {
		if file.OwnerID == ownerID {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (f *fakeCatalog) DeleteFile(id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	delete(f.files, id)
	return nil
}

func (f *fakeCatalog) CreateShare(s *model.FileShare) error {
	if f.createShareErr != nil {
		return f.createShareErr
	}
	if s.SharedAt.IsZero() {
		s.SharedAt = time.Now()
	}
	f.shares = append(f.shares, s)
	return nil
}

func (f *fakeCatalog) ShareExists(fileID string, targetPublicID int) (bool, error) {
	for _, s := range f.shares {
		if s.FileID == fileID && s.SharedWithPublicID == targetPublicID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalog) SharesFor(targetPublicID int) ([]model.FileShare, error) {
	var out []model.FileShare
	for _, s := range f.shares {
		if s.SharedWithPublicID == targetPublicID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeBlobs struct {
	objects map[string][]byte
	ops     []string

	uploadErr error
	deleteErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[objectKey] = data
	f.ops = append(f.ops, "upload:"+objectKey)
	return nil
}

func (f *fakeBlobs) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	data, ok := f.objects[objectKey]
	if !ok {
		return nil, util.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobs) Delete(ctx context.Context, objectKey string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, objectKey)
	f.ops = append(f.ops, "delete:"+objectKey)
	return nil
}

func newLibraryFixture() (*LibraryService, *fakeCatalog, *fakeBlobs) {
	alice := studentWith(1, 11111, "Alice")
	bob := studentWith(2, 22222, "Bob")
	resolver := &fakeResolver{
		byPublicID: map[int]*model.Student{11111: alice, 22222: bob},
	}
	catalog := newFakeCatalog()
	blobs := newFakeBlobs()
	return NewLibraryService(catalog, blobs, resolver), catalog, blobs
}

func seedFile(t *testing.T, svc *LibraryService, owner *model.Student, name, content string) *model.LibraryFile {
	t.Helper()
	file, err := svc.Upload(context.Background(), owner, name, "text/plain", int64(len(content)), bytes.NewReader([]byte(content)))
	require.NoError(t, err)
	return file
}

func TestUpload_StoresBlobAndMetadata(t *testing.T) {
	t.Parallel()

	svc, catalog, blobs := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")

	file := seedFile(t, svc, owner, "notes.txt", "resistor color codes")

	assert.Equal(t, uint(1), file.OwnerID)
	assert.Equal(t, 11111, file.OwnerPublicID)
	assert.Equal(t, "Alice", file.OwnerName)
	assert.Contains(t, catalog.files, file.ID)
	assert.Contains(t, blobs.objects, file.ObjectKey)
}

func TestUpload_RemovesBlobWhenMetadataFails(t *testing.T) {
	t.Parallel()

	svc, catalog, blobs := newLibraryFixture()
	catalog.createFileErr = errors.New("insert failed")
	owner := studentWith(1, 11111, "Alice")

	_, err := svc.Upload(context.Background(), owner, "notes.txt", "text/plain", 4, bytes.NewReader([]byte("data")))
	assert.Error(t, err)
	assert.Empty(t, blobs.objects)
}

func TestDownload_StreamsContent(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")
	file := seedFile(t, svc, owner, "notes.txt", "ohms law")

	meta, stream, err := svc.Download(context.Background(), file.ID)
	require.NoError(t, err)
	defer stream.Close()

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "ohms law", string(data))
	assert.Equal(t, "notes.txt", meta.FileName)
}

func TestDownload_UnknownFile(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLibraryFixture()

	_, _, err := svc.Download(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDelete_OnlyOwnerMayDelete(t *testing.T) {
	t.Parallel()

	svc, catalog, _ := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")
	file := seedFile(t, svc, owner, "notes.txt", "data")

	err := svc.Delete(context.Background(), file.ID, 2)
	assert.ErrorIs(t, err, util.ErrForbidden)
	assert.Contains(t, catalog.files, file.ID)
}

func TestDelete_BlobGoesBeforeMetadata(t *testing.T) {
	t.Parallel()

	svc, catalog, blobs := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")
	file := seedFile(t, svc, owner, "notes.txt", "data")

	require.NoError(t, svc.Delete(context.Background(), file.ID, 1))

	assert.NotContains(t, blobs.objects, file.ObjectKey)
	assert.NotContains(t, catalog.files, file.ID)
	require.Len(t, blobs.ops, 2)
	assert.Equal(t, "delete:"+file.ObjectKey, blobs.ops[1])
}

func TestDelete_MetadataSurvivesBlobFailure(t *testing.T) {
	t.Parallel()

	svc, catalog, blobs := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")
	file := seedFile(t, svc, owner, "notes.txt", "data")
	blobs.deleteErr = errors.New("store unavailable")

	err := svc.Delete(context.Background(), file.ID, 1)
	assert.Error(t, err)
	assert.Contains(t, catalog.files, file.ID)
}

func TestDelete_UnknownFile(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLibraryFixture()

	err := svc.Delete(context.Background(), "no-such-id", 1)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestShare_CreatesGrant(t *testing.T) {
	t.Parallel()

	svc, catalog, _ := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")
	file := seedFile(t, svc, owner, "notes.txt", "data")

	grant, err := svc.Share(file.ID, 11111, 22222)
	require.NoError(t, err)
	assert.Equal(t, file.ID, grant.FileID)
	assert.Equal(t, 11111, grant.SharedByPublicID)
	assert.Equal(t, 22222, grant.SharedWithPublicID)
	require.Len(t, catalog.shares, 1)
}

func TestShare_UnknownFile(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLibraryFixture()

	_, err := svc.Share("no-such-id", 11111, 22222)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestShare_UnknownTarget(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")
	file := seedFile(t, svc, owner, "notes.txt", "data")

	_, err := svc.Share(file.ID, 11111, 99999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestShare_DuplicateGrant(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")
	file := seedFile(t, svc, owner, "notes.txt", "data")

	_, err := svc.Share(file.ID, 11111, 22222)
	require.NoError(t, err)

	_, err = svc.Share(file.ID, 11111, 22222)
	assert.ErrorIs(t, err, util.ErrAlreadyShared)
}

func TestShare_LostInsertRace(t *testing.T) {
	t.Parallel()

	svc, catalog, _ := newLibraryFixture()
	catalog.createShareErr = util.ErrDuplicateKey
	owner := studentWith(1, 11111, "Alice")
	file := seedFile(t, svc, owner, "notes.txt", "data")

	_, err := svc.Share(file.ID, 11111, 22222)
	assert.ErrorIs(t, err, util.ErrAlreadyShared)
}

func TestShare_NoOwnershipCheck(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")
	file := seedFile(t, svc, owner, "notes.txt", "data")

	// Bob shares Alice's file; the grant records Bob as the sharer.
	grant, err := svc.Share(file.ID, 22222, 22222)
	require.NoError(t, err)
	assert.Equal(t, 22222, grant.SharedByPublicID)
}

func TestSharedWithMe_DropsDeletedFiles(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLibraryFixture()
	owner := studentWith(1, 11111, "Alice")
	kept := seedFile(t, svc, owner, "kept.txt", "data")
	gone := seedFile(t, svc, owner, "gone.txt", "data")

	_, err := svc.Share(kept.ID, 11111, 22222)
	require.NoError(t, err)
	_, err = svc.Share(gone.ID, 11111, 22222)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), gone.ID, 1))

	shared, err := svc.SharedWithMe(22222)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "kept.txt", shared[0].File.FileName)
	assert.Equal(t, 11111, shared[0].SharedBy)
	assert.Equal(t, "Alice", shared[0].SharerName)
	assert.WithinDuration(t, time.Now(), shared[0].SharedAt, time.Minute)
}
