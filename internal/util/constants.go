package util

import "time"

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// OTP and public-id namespaces.
const (
	OTPTTL = 10 * time.Minute

	PublicIDMin = 10000
	PublicIDMax = 99999
)

const MaxLibraryFileSize = 50 << 20
