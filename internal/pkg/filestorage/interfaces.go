package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores the upload under a subdirectory and returns its public URL
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// CopyFile stores a copy of an existing file under path and returns the copy's URL
	CopyFile(fileURL, path string) (string, error)

	// DeleteFile removes a file previously returned by SaveFileWithPath
	DeleteFile(fileURL string) error
}
