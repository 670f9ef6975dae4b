package videoid

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"  dQw4w9WgXcQ  ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ"},
		// Unrecognized URL shapes fall through unchanged.
		{"https://vimeo.com/12345", "https://vimeo.com/12345"},
	}

	for _, tt := range tests {
		if got := Extract(tt.input); got != tt.want {
			t.Errorf("Extract(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractSameIDAcrossShapes(t *testing.T) {
	shapes := []string{
		"https://www.youtube.com/watch?v=abc_123-XYZ",
		"https://youtu.be/abc_123-XYZ",
		"https://www.youtube.com/embed/abc_123-XYZ",
		"https://m.youtube.com/watch?v=abc_123-XYZ",
	}

	for _, s := range shapes {
		if got := Extract(s); got != "abc_123-XYZ" {
			t.Errorf("Extract(%q) = %q, want abc_123-XYZ", s, got)
		}
	}
}

func TestNormalizeBatchDeduplicates(t *testing.T) {
	items := NormalizeBatch(
		[]string{"dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ"},
		nil,
		nil,
	)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ID != "dQw4w9WgXcQ" {
		t.Errorf("expected ID dQw4w9WgXcQ, got %q", items[0].ID)
	}
	if items[0].Source != "dQw4w9WgXcQ" {
		t.Errorf("expected first-seen source to win, got %q", items[0].Source)
	}
}

func TestNormalizeBatchPreservesOrder(t *testing.T) {
	items := NormalizeBatch(
		[]string{"bbbbbbbbbbb"},
		[]string{"aaaaaaaaaaa"},
		[]string{"https://youtu.be/ccccccccccc", "https://youtu.be/aaaaaaaaaaa"},
	)

	var ids []string
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	want := []string{"bbbbbbbbbbb", "aaaaaaaaaaa", "ccccccccccc"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("got order %v, want %v", ids, want)
	}
}

func TestNormalizeBatchEmpty(t *testing.T) {
	if items := NormalizeBatch(nil, nil, nil); len(items) != 0 {
		t.Errorf("expected no items, got %v", items)
	}
	if items := NormalizeBatch([]string{}, []string{}, []string{}); len(items) != 0 {
		t.Errorf("expected no items, got %v", items)
	}
}
