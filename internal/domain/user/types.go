package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	// RoleFitter is the front-line role: sees only stock it holds or can claim.
	RoleFitter Role = "fitter"
	// RoleAdmin is the privileged back-office role.
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleFitter, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) IsPrivileged() bool {
	return r == RoleAdmin
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
