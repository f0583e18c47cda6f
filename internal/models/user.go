// Package models defines core domain types
package models

import (
	"encoding/json"
)

// Profile is the backend's user record. The payload is kept verbatim so it can be
// written back to local storage without dropping fields this client does not model.
type Profile struct {
	ID    FlexString `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Token string     `json:"token,omitempty"`

	raw json.RawMessage
}

type profileFields Profile

// UnmarshalJSON decodes the known fields and remembers the original payload.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var fields profileFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = Profile(fields)
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the original payload when there is one.
func (p Profile) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(profileFields(p))
}

// Clone returns a deep copy of the profile
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.raw = append(json.RawMessage(nil), p.raw...)
	return &c
}

// DisplayName returns the name, falling back to the email address
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
