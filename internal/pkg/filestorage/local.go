package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/certdesk/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// dir ensures the subdirectory exists and returns it
func (ls *LocalStorage) dir(subPath string) (string, error) {
	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, filepath.Clean("/" + subPath))
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}
	return fullDirPath, nil
}

// SaveFileWithPath saves an upload to a subdirectory under a uuid name, keeping the extension
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath, err := ls.dir(subPath)
	if err != nil {
		return "", err
	}

	// Generate a unique filename to prevent collisions
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(fullDirPath, uuid.New().String()+ext)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", dstPath).Msg("File saved successfully")
	return dstPath, nil
}

// SaveBytes writes data to subPath/filename, replacing any previous file of that name
func (ls *LocalStorage) SaveBytes(subPath, filename string, data []byte) (string, error) {
	name := filepath.Base(filename)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("invalid file name: %q", filename)
	}

	fullDirPath, err := ls.dir(subPath)
	if err != nil {
		return "", err
	}

	dstPath := filepath.Join(fullDirPath, name)
	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file")
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return dstPath, nil
}

// DeleteFile removes a file below the storage root.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	rel, err := filepath.Rel(ls.basePath, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", filePath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", filePath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", filePath).Msg("File deleted successfully")
	return nil
}
