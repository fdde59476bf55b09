package enums

import (
	"fmt"
	"strings"
)

// UserRole gates storefront versus back-office access.
type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRoleUser
}

// ParseUserRole accepts either case.
func ParseUserRole(value string) (UserRole, error) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", value)
	}
	return role, nil
}
