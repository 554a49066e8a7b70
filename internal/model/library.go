package model

import "time"

// LibraryFile is the metadata row for an uploaded blob. ObjectKey addresses
// the content in the blob store; ownership is fixed at upload time.
type LibraryFile struct {
	UUIDBase
	FileName      string `gorm:"size:255;not null" json:"fileName"`
	ContentType   string `gorm:"size:100" json:"contentType"`
	Size          int64  `json:"size"`
	ObjectKey     string `gorm:"size:255;not null" json:"-"`
	OwnerID       uint   `gorm:"index;not null" json:"ownerId"`
	OwnerPublicID int    `gorm:"index" json:"ownerPublicId"`
	OwnerName     string `gorm:"size:255" json:"ownerName"`
}

func (LibraryFile) TableName() string {
	return "library_files"
}

// FileShare grants one student access to one file. The composite unique
// index rejects a second grant for the same (file, recipient) pair;
// re-sharing is an error, not an upsert. Grants are never updated and no
// revoke operation exists.
type FileShare struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID             string    `gorm:"size:36;uniqueIndex:idx_share_target;not null" json:"fileId"`
	SharedByPublicID   int       `gorm:"index;not null" json:"sharedByPublicId"`
	SharedWithPublicID int       `gorm:"uniqueIndex:idx_share_target;not null" json:"sharedWithPublicId"`
	SharedAt           time.Time `gorm:"autoCreateTime" json:"sharedAt"`
}

func (FileShare) TableName() string {
	return "file_shares"
}

// SharedFile is one entry of a shared-with-me listing: the file joined
// with who shared it and when.
type SharedFile struct {
	File       LibraryFile `json:"file"`
	SharedBy   int         `json:"sharedBy"`
	SharerName string      `json:"sharerName"`
	SharedAt   time.Time   `json:"sharedAt"`
}
