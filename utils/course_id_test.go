package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanonicalCourseID_HeterogeneousForms(t *testing.T) {
	id := uuid.MustParse("3f2504e0-4f89-41d3-9a0c-0305e82c3301")

	forms := []interface{}{
		id,
		&id,
		id.String(),
		"3F2504E0-4F89-41D3-9A0C-0305E82C3301", // chữ hoa
		"  3f2504e0-4f89-41d3-9a0c-0305e82c3301  ",
		"urn:uuid:3f2504e0-4f89-41d3-9a0c-0305e82c3301",
		[]byte("3f2504e0-4f89-41d3-9a0c-0305e82c3301"),
	}

	want := id.String()
	for _, form := range forms {
		if got := CanonicalCourseID(form); got != want {
			t.Errorf("CanonicalCourseID(%v) = %q, want %q", form, got, want)
		}
	}
}

func TestCanonicalCourseID_Invalid(t *testing.T) {
	cases := []interface{}{
		"not-an-id",
		"",
		nil,
		123,
		(*uuid.UUID)(nil),
	}
	for _, c := range cases {
		if got := CanonicalCourseID(c); got != "" {
			t.Errorf("CanonicalCourseID(%v) = %q, want empty", c, got)
		}
	}
}

func TestParseCourseID(t *testing.T) {
	id := uuid.New()
	parsed, err := ParseCourseID(id.String())
	if err != nil {
		t.Fatalf("ParseCourseID failed: %v", err)
	}
	if parsed != id {
		t.Errorf("ParseCourseID = %s, want %s", parsed, id)
	}

	if _, err := ParseCourseID("not-an-id"); err == nil {
		t.Error("expected error for invalid id")
	}
}
