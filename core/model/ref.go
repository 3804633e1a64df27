package model

import (
	"bytes"
	"encoding/json"
)

// Ref is an optional reference to another entity by identity. The zero value
// is an unset reference.
type Ref struct {
	id  string
	set bool
}

// NewRef returns a reference to id. An empty id yields an unset Ref.
func NewRef(id string) Ref {
	if id == "" {
		return Ref{}
	}
	return Ref{id: id, set: true}
}

// Get returns the referenced identity and whether the reference is set.
func (r Ref) Get() (string, bool) { return r.id, r.set }

// IsSet reports whether the reference points to an entity.
func (r Ref) IsSet() bool { return r.set }

// Is reports whether r is set and points to id.
func (r Ref) Is(id string) bool { return r.set && r.id == id }

// String returns the identity or "" when unset.
func (r Ref) String() string { return r.id }

// MarshalJSON encodes an unset reference as null.
func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts null or a string.
func (r *Ref) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Ref{}
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = NewRef(id)
	return nil
}
