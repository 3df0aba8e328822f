package product

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewTagsNormalizes(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want Tags
	}{
		{"trims and drops empties", []string{" red ", "", "  "}, Tags{"red"}},
		{"removes duplicates keeping first order", []string{"b", "a", "b", "c", "a"}, Tags{"b", "a", "c"}},
		{"splits embedded separators", []string{"x,y", "y"}, Tags{"x", "y"}},
		{"nil input", nil, Tags{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTags(tt.in...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("NewTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTagsStorageRoundTrip(t *testing.T) {
	tags := NewTags("kitchen", "steel", "kitchen")

	value, err := tags.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if value != "kitchen,steel" {
		t.Fatalf("expected stored form kitchen,steel, got %v", value)
	}

	var scanned Tags
	if err := scanned.Scan([]byte("kitchen,steel")); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if !reflect.DeepEqual(scanned, tags) {
		t.Fatalf("expected %q after scan, got %q", tags, scanned)
	}

	if err := scanned.Scan(42); err == nil {
		t.Fatalf("expected error scanning an int")
	}
}

func TestTagsMarshalAsArray(t *testing.T) {
	var empty Tags
	data, err := json.Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}

	if !NewTags("a", "b").Contains("b") || NewTags("a").Contains("c") {
		t.Fatalf("Contains reported wrong membership")
	}
}
