package filestorage

import "mime/multipart"

// FileStorage defines the interface for archive storage operations
type FileStorage interface {
	// SaveFileWithPath stores an upload under a subdirectory with a unique name and returns its path
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// SaveBytes writes data under a subdirectory with the given name and returns its path
	SaveBytes(subPath, filename string, data []byte) (string, error)

	// DeleteFile removes a stored file
	DeleteFile(filePath string) error
}
