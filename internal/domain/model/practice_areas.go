package model

import (
	"encoding/json"
	"sort"
	"strings"
)

// PracticeAreas is a set of capability tags such as "Java" or "Cloud".
// Tags are compared case-sensitively after trimming surrounding space.
type PracticeAreas map[string]struct{}

// NewPracticeAreas builds a set from tags, skipping blanks and duplicates.
func NewPracticeAreas(tags ...string) PracticeAreas {
	set := make(PracticeAreas, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

// Has reports whether tag is in the set.
func (a PracticeAreas) Has(tag string) bool {
	_, ok := a[tag]
	return ok
}

// Covers reports whether a is a superset of required. An empty
// requirement is covered by any set.
func (a PracticeAreas) Covers(required PracticeAreas) bool {
	if len(required) > len(a) {
		return false
	}
	for tag := range required {
		if _, ok := a[tag]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of tags.
func (a PracticeAreas) Len() int { return len(a) }

// Clone returns an independent copy.
func (a PracticeAreas) Clone() PracticeAreas {
	out := make(PracticeAreas, len(a))
	for tag := range a {
		out[tag] = struct{}{}
	}
	return out
}

// Slice returns the tags in lexical order.
func (a PracticeAreas) Slice() []string {
	out := make([]string, 0, len(a))
	for tag := range a {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (a PracticeAreas) String() string {
	return strings.Join(a.Slice(), ",")
}

// MarshalJSON encodes the set as a sorted array.
func (a PracticeAreas) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Slice())
}

// UnmarshalJSON decodes an array of tags.
func (a *PracticeAreas) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*a = NewPracticeAreas(tags...)
	return nil
}
