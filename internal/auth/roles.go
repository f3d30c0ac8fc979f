package auth

import "strings"

// Role labels recognized by route gates. Claims are normalized to lower case
// before comparison, so "Admin" in a provider group matches RoleAdmin.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
	RoleMember      = "member"
)

// Authorize reports whether the caller's role labels intersect the required
// set. An empty caller list is always denied; an empty required set means the
// route needs authentication only.
func Authorize(required, caller []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(caller) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(caller))
	for _, role := range normalizeRoles(caller) {
		have[role] = struct{}{}
	}
	for _, role := range normalizeRoles(required) {
		if _, ok := have[role]; ok {
			return true
		}
	}
	return false
}

func normalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(roles))
	var normalized []string
	for _, role := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		normalized = append(normalized, role)
	}
	return normalized
}
