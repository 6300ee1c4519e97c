package auth

import (
	"fmt"
	"strings"
	"time"
)

// Role is one of the fixed back-office roles.
type Role string

const (
	RoleOwner         Role = "owner"
	RoleOpsDirector   Role = "ops_director"
	RoleTalentManager Role = "talent_manager"
	RoleMarketingOps  Role = "marketing_ops"
	RoleFinance       Role = "finance"
	RoleSafetySupport Role = "safety_support"
)

// DefaultRole is assigned when registration does not name a role.
const DefaultRole = RoleTalentManager

// ParseRole validates a raw role string against the fixed enumeration.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.TrimSpace(strings.ToLower(raw)))
	switch role {
	case RoleOwner, RoleOpsDirector, RoleTalentManager, RoleMarketingOps, RoleFinance, RoleSafetySupport:
		return role, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
}

// User is a back-office operator account. The record is created at
// registration and never mutated or deleted by any exposed operation.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
