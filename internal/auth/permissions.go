package auth

import "strings"

// Wildcard grants every capability, including ones that do not exist yet.
const Wildcard = "*"

// RolePermissions maps each role to its capability grants. The table is
// fixed process-wide configuration: constructed once, never mutated, and
// therefore safe for unsynchronized concurrent reads.
var RolePermissions = map[Role][]string{
	RoleOwner:         {Wildcard},
	RoleOpsDirector:   {"talents", "personas", "onboarding", "consent", "content", "revenue", "incidents", "tasks"},
	RoleTalentManager: {"talents:assigned", "personas:assigned", "onboarding", "consent:view", "wellbeing"},
	RoleMarketingOps:  {"personas:view", "content", "marketing"},
	RoleFinance:       {"revenue"},
	RoleSafetySupport: {"incidents", "wellbeing"},
}

// Authorize reports whether role may act on the named capability.
//
// Grants match in two tiers: first an exact capability string, then the
// resource family (the text before the first ':'). A scoped grant like
// "talents:assigned" therefore satisfies a request for the bare resource
// "talents". Scope suffixes are NOT enforced here: a handler that needs
// row-level scoping must filter by the acting identity itself, because
// this engine only decides resource-family membership.
func Authorize(role Role, capability string) bool {
	grants, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, grant := range grants {
		if grant == Wildcard || grant == capability {
			return true
		}
	}
	family := capabilityFamily(capability)
	for _, grant := range grants {
		if capabilityFamily(grant) == family {
			return true
		}
	}
	return false
}

// Require fails with ErrForbidden when Authorize denies the capability.
func Require(role Role, capability string) error {
	if !Authorize(role, capability) {
		return ErrForbidden
	}
	return nil
}

func capabilityFamily(capability string) string {
	if i := strings.IndexByte(capability, ':'); i >= 0 {
		return capability[:i]
	}
	return capability
}
