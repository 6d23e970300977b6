package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/ledongthuc/pdf"
)

// PDFPageCount đọc số trang của file PDF upload lên (kiểm tra file hợp lệ
// luôn: PDF hỏng sẽ trả lỗi ở bước tạo reader)
func PDFPageCount(fileHeader *multipart.FileHeader) (int, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return 0, fmt.Errorf("lỗi đọc file PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return 0, fmt.Errorf("không thể tạo reader PDF: %w", err)
	}

	return reader.NumPage(), nil
}
