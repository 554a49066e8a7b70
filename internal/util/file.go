package util

import (
	"io"
	"mime/multipart"
	"net/http"
)

// DetectContentType sniffs the first 512 bytes of an uploaded file and
// rewinds it. Used when the client omits the part's Content-Type header.
func DetectContentType(file multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buffer[:n]), nil
}
