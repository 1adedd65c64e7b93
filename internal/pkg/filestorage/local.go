package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yigit/skillshare/internal/pkg/logger"
)

// URLPrefix is the route the upload directory is served under.
const URLPrefix = "/uploads"

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory on disk
	baseURL  string // optional absolute URL prefix for returned paths
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed.
// When baseURL is set, returned URLs are absolute.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFileWithPath saves a file to a specified subdirectory under a random name
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	url, err := ls.write(file, subPath, filepath.Ext(fileHeader.Filename))
	if err != nil {
		return "", err
	}
	logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Msg("File saved successfully")
	return url, nil
}

// CopyFile duplicates a stored file under subPath with a new random name
func (ls *LocalStorage) CopyFile(fileURL, subPath string) (string, error) {
	srcPath, err := ls.physicalPath(fileURL)
	if err != nil {
		return "", err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		logger.Error().Err(err).Str("path", srcPath).Msg("Failed to open file to copy")
		return "", fmt.Errorf("failed to open file to copy: %w", err)
	}
	defer src.Close()

	url, err := ls.write(src, subPath, filepath.Ext(srcPath))
	if err != nil {
		return "", err
	}
	logger.Info().Str("source", fileURL).Str("url", url).Msg("File copied successfully")
	return url, nil
}

func (ls *LocalStorage) write(src io.Reader, subPath, ext string) (string, error) {
	subPath = strings.Trim(filepath.ToSlash(filepath.Clean("/"+subPath)), "/")
	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(ext)
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	return ls.baseURL + path.Join(URLPrefix, subPath, name), nil
}

// DeleteFile removes a stored file. Missing files are not an error.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	physicalPath, err := ls.physicalPath(fileURL)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// physicalPath maps a returned URL back onto the storage directory, refusing paths outside it.
func (ls *LocalStorage) physicalPath(fileURL string) (string, error) {
	rel := strings.TrimPrefix(fileURL, ls.baseURL)
	idx := strings.Index(rel, URLPrefix+"/")
	if idx < 0 {
		return "", fmt.Errorf("invalid file path: %s", fileURL)
	}
	rel = path.Clean("/" + rel[idx+len(URLPrefix)+1:])
	if rel == "/" {
		return "", fmt.Errorf("invalid file path: %s", fileURL)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(strings.TrimPrefix(rel, "/"))), nil
}
