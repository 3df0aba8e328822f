package product

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// tagSeparator joins tags in the text column searched by full-text queries
const tagSeparator = ","

// Tags is an ordered set of product tags. It is stored as comma-joined text
// and serialized to JSON as an array.
type Tags []string

// NewTags trims every tag, drops empty ones and duplicates, and keeps the
// first-seen order. Commas inside a tag would break the stored form, so they
// split the tag.
func NewTags(values ...string) Tags {
	tags := Tags{}
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, tagSeparator) {
			tag := strings.TrimSpace(part)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// ParseTags decodes the stored delimited form
func ParseTags(stored string) Tags {
	return NewTags(stored)
}

// String returns the stored delimited form
func (t Tags) String() string {
	return strings.Join(NewTags(t...), tagSeparator)
}

// Contains reports whether tag is in the set
func (t Tags) Contains(tag string) bool {
	for _, existing := range t {
		if existing == tag {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (t Tags) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner
func (t *Tags) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = Tags{}
	case string:
		*t = ParseTags(v)
	case []byte:
		*t = ParseTags(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}
	return nil
}

// MarshalJSON always writes an array, never null
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
