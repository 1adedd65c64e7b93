package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "")
	require.NoError(t, err)

	url, err := ls.SaveFileWithPath(fileHeader(t, "Cover.PNG", []byte("png")), "covers")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/covers/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	onDisk := filepath.Join(dir, "covers", filepath.Base(url))
	content, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png", string(content))

	require.NoError(t, ls.DeleteFile(url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ls.DeleteFile(url), "deleting twice is fine")
}

func TestSaveWithBaseURLAndTraversal(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "https://cdn.example.com/")
	require.NoError(t, err)

	url, err := ls.SaveFileWithPath(fileHeader(t, "a.jpg", []byte("x")), "../../covers")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/uploads/covers/"))

	p, err := ls.physicalPath("/uploads/../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, dir))

	_, err = ls.physicalPath("/somewhere/else.png")
	assert.Error(t, err)
}

func TestCopyFileIsIndependent(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "")
	require.NoError(t, err)

	original, err := ls.SaveFileWithPath(fileHeader(t, "cover.jpg", []byte("jpeg")), "covers")
	require.NoError(t, err)

	copied, err := ls.CopyFile(original, "covers")
	require.NoError(t, err)
	assert.NotEqual(t, original, copied)
	assert.True(t, strings.HasSuffix(copied, ".jpg"))

	require.NoError(t, ls.DeleteFile(copied))
	content, err := os.ReadFile(filepath.Join(dir, "covers", filepath.Base(original)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(content))

	_, err = ls.CopyFile("/uploads/covers/missing.png", "covers")
	assert.Error(t, err)
}
