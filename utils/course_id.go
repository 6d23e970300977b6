package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidCourseID = errors.New("course id không hợp lệ")

// CanonicalCourseID đưa id khóa học về dạng chuỗi chuẩn để so sánh.
// Id có thể đến dưới nhiều kiểu runtime khác nhau (uuid.UUID, string,
// []byte, Stringer); mọi so sánh thành viên phải đi qua hàm này thay vì
// toString rải rác ở từng chỗ gọi. Trả về "" nếu không phải uuid hợp lệ.
func CanonicalCourseID(v interface{}) string {
	var s string
	switch id := v.(type) {
	case uuid.UUID:
		s = id.String()
	case *uuid.UUID:
		if id == nil {
			return ""
		}
		s = id.String()
	case string:
		s = id
	case []byte:
		s = string(id)
	case fmt.Stringer:
		s = id.String()
	default:
		return ""
	}

	parsed, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return parsed.String()
}

// ParseCourseID validate id và trả về uuid.UUID
func ParseCourseID(v interface{}) (uuid.UUID, error) {
	canonical := CanonicalCourseID(v)
	if canonical == "" {
		return uuid.Nil, ErrInvalidCourseID
	}
	return uuid.MustParse(canonical), nil
}
