package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

const mediaBucket = "course-media"

func storageClient() *storage.Client {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	return storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)
}

func publicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", os.Getenv("SUPABASE_URL"), mediaBucket, objectPath)
}

func uploadMultipart(fileHeader *multipart.FileHeader, objectPath string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient().UploadFile(mediaBucket, objectPath, &buf, options); err != nil {
		return "", err
	}
	return publicURL(objectPath), nil
}

// UploadVideoToStorage upload video bài giảng (.mp4, .webm)
// Path: course-media/videos/<courseID>/<fileID>.<ext>
func UploadVideoToStorage(fileHeader *multipart.FileHeader, courseID, fileID string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	objectPath := fmt.Sprintf("videos/%s/%s%s", courseID, fileID, ext)
	return uploadMultipart(fileHeader, objectPath)
}

// UploadPDFToStorage upload tài liệu PDF của khóa học
// Path: course-media/pdfs/<courseID>/<fileID>.pdf
func UploadPDFToStorage(fileHeader *multipart.FileHeader, courseID, fileID string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	objectPath := fmt.Sprintf("pdfs/%s/%s%s", courseID, fileID, ext)
	return uploadMultipart(fileHeader, objectPath)
}

// UploadImageToStorage upload ảnh thumbnail (.jpg, .png)
// Path: course-media/images/<fileID>.<ext>
func UploadImageToStorage(fileHeader *multipart.FileHeader, fileID string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	objectPath := fmt.Sprintf("images/%s%s", fileID, ext)
	return uploadMultipart(fileHeader, objectPath)
}

// DeleteFileFromStorage nhận public URL hoặc đường dẫn chứa "/storage/v1/object/"
// và gọi API Supabase Storage để xóa object.
// Yêu cầu: SUPABASE_URL và SUPABASE_KEY (key có quyền xóa) đã set trong ENV.
func DeleteFileFromStorage(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("SUPABASE_URL hoặc SUPABASE_KEY chưa cấu hình")
	}

	// Tìm phần "/storage/v1/object/" trong URL
	idx := strings.Index(fileURL, "/storage/v1/object/")
	if idx == -1 {
		return fmt.Errorf("không xác định được đường dẫn object trong URL: %s", fileURL)
	}

	rest := fileURL[idx+len("/storage/v1/object/"):]
	// Luôn bỏ prefix "public/" nếu có
	rest = strings.TrimPrefix(rest, "public/")

	// rest => "<bucket>/<path/to/object...>"
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 {
		return fmt.Errorf("URL object không đúng định dạng: %s", fileURL)
	}
	bucket, objectPath := parts[0], parts[1]

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", supabaseURL, bucket, objectPath)
	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+supabaseKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("xóa object thất bại (%d): %s", resp.StatusCode, string(body))
	}
	return nil
}
