package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// UserSet is a list of user (or pet) ids where every id appears at most once.
// Stored as a plain array in Mongo and as a JSON text column in SQL.
type UserSet []string

// Contains reports whether id is a member of the set
func (s UserSet) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns a set that includes id. Adding an existing member is a no-op.
func (s UserSet) Add(id string) UserSet {
	if s.Contains(id) {
		return s
	}
	out := make(UserSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, id)
}

// Remove returns a set without id. Removing a missing member is a no-op.
func (s UserSet) Remove(id string) UserSet {
	if !s.Contains(id) {
		return s
	}
	out := make(UserSet, 0, len(s)-1)
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of members
func (s UserSet) Len() int {
	return len(s)
}

// SameMembers reports whether both sets hold the same ids, in any order
func (s UserSet) SameMembers(other UserSet) bool {
	if len(s) != len(other) {
		return false
	}
	for _, id := range other {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// MarshalJSON renders an empty set as [] instead of null.
func (s UserSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// Value stores the set as a JSON array
func (s UserSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSON array column
func (s *UserSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = UserSet{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported type %T for UserSet", src)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return err
	}
	*s = UserSet(ids)
	return nil
}
