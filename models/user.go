package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Role is the backend's user_type discriminator.
type Role int

const (
	RoleOwner       Role = 1
	RoleAdmin       Role = 2
	RoleVendor      Role = 3
	RoleDistributor Role = 4
	RoleCustomer    Role = 5
)

func (r Role) Valid() bool {
	return r >= RoleOwner && r <= RoleCustomer
}

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleVendor:
		return "vendor"
	case RoleDistributor:
		return "distributor"
	case RoleCustomer:
		return "customer"
	default:
		return "unknown(" + strconv.Itoa(int(r)) + ")"
	}
}

// UnmarshalJSON accepts 4 as well as "4"; the backend is not consistent.
func (r *Role) UnmarshalJSON(b []byte) error {
	var id ID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	if id == "" {
		*r = 0
		return nil
	}
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return fmt.Errorf("user_type %q: %w", id, err)
	}
	*r = Role(n)
	return nil
}

// ID is an identifier the backend sends either as a JSON number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }
