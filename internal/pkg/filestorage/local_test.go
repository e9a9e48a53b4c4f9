package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageFileHeader(contentType string, size int64) *multipart.FileHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: "photo.jpg",
		Header:   header,
		Size:     size,
	}
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name       string
		fileHeader *multipart.FileHeader
		wantMime   string
		wantErr    bool
	}{
		{"jpeg accepted", imageFileHeader("image/jpeg", 1024), "image/jpeg", false},
		{"png accepted", imageFileHeader("image/png", 1024), "image/png", false},
		{"webp accepted", imageFileHeader("image/webp", 1024), "image/webp", false},
		{"pdf rejected", imageFileHeader("application/pdf", 1024), "", true},
		{"oversized rejected", imageFileHeader("image/jpeg", MaxImageSize+1), "", true},
		{"nil header rejected", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mimeType, err := ValidateImage(tt.fileHeader)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, mimeType)
		})
	}
}

// uploadedFileHeader builds a real multipart.FileHeader backed by content,
// so fileHeader.Open works.
func uploadedFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSaveFileWithPath(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)

	fileHeader := uploadedFileHeader(t, "proof.jpg", []byte("fake image bytes"))

	path, err := storage.SaveFileWithPath(fileHeader, "submissions")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "http://localhost:8080/uploads/submissions/"))
	assert.True(t, strings.HasSuffix(path, ".jpg"))

	// The stored file exists under the subdirectory with its generated name
	entries, err := os.ReadDir(filepath.Join(dir, "submissions"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stored, err := os.ReadFile(filepath.Join(dir, "submissions", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), stored)
}

func TestSaveFileNilHeader(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	path, err := storage.SaveFile(nil)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "")
	require.NoError(t, err)

	target := filepath.Join(dir, "old-picture.png")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	require.NoError(t, storage.DeleteFile("uploads/old-picture.png"))
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))

	// Deleting a missing file is a no-op
	assert.NoError(t, storage.DeleteFile("uploads/already-gone.png"))
}

func TestGetFullPath(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "pic.jpg"), storage.GetFullPath("http://localhost:8080/uploads/pic.jpg"))
	assert.Equal(t, "", storage.GetFullPath(""))
}
