package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// RoleType defines a capability a user holds
type RoleType string

const (
	RoleLearner    RoleType = "learner"
	RoleInstructor RoleType = "instructor"
)

// Roles is the capability set of a user, stored as a comma separated list.
type Roles []RoleType

// Has reports whether the set contains role.
func (r Roles) Has(role RoleType) bool {
	return slices.Contains(r, role)
}

// With returns the set with role added once.
func (r Roles) With(role RoleType) Roles {
	if r.Has(role) {
		return r
	}
	out := append(Roles{}, r...)
	return append(out, role)
}

// Strings returns the roles as plain strings, in order.
func (r Roles) Strings() []string {
	out := make([]string, len(r))
	for i, role := range r {
		out[i] = string(role)
	}
	return out
}

// Value implements driver.Valuer
func (r Roles) Value() (driver.Value, error) {
	return strings.Join(r.Strings(), ","), nil
}

// Scan implements sql.Scanner
func (r *Roles) Scan(src interface{}) error {
	s, err := textFrom(src)
	if err != nil {
		return err
	}
	*r = Roles{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*r = append(*r, RoleType(part))
		}
	}
	return nil
}

// StringList is a list of strings stored as a JSON array column.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	return jsonValue(l, "[]")
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	return jsonScan(src, l)
}

func jsonValue(v interface{}, empty string) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

func jsonScan(src interface{}, dest interface{}) error {
	s, err := textFrom(src)
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dest)
}

func textFrom(src interface{}) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported column type %T", src)
	}
}
