package auth

import "fmt"

// Role is the closed set of account roles. Dispatching on Role should always
// switch over the three constants so a new role breaks loudly at compile/review
// time instead of silently falling through a string comparison.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}
