package service

import (
	"fmt"
	"strconv"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// RolePolicy enforces the per-role head-count caps. Student is unbounded.
type RolePolicy struct {
	caps map[domain.Role]int
}

// NewRolePolicy builds a policy with a single Super Admin and the given caps.
func NewRolePolicy(adminCap, moderatorCap int) *RolePolicy {
	return &RolePolicy{caps: map[domain.Role]int{
		domain.RoleSuperAdmin: 1,
		domain.RoleAdmin:      adminCap,
		domain.RoleModerator:  moderatorCap,
	}}
}

// Cap returns the limit for role and whether one applies.
func (p *RolePolicy) Cap(role domain.Role) (int, bool) {
	n, ok := p.caps[role]
	return n, ok
}

// Check decides whether targetUID may take role given its current holders.
// The target is never counted against its own promotion.
func (p *RolePolicy) Check(targetUID string, role domain.Role, holders []domain.User) error {
	limit, capped := p.caps[role]
	if !capped {
		return nil
	}

	others := 0
	for _, h := range holders {
		if h.ID != targetUID {
			others++
		}
	}
	if others >= limit {
		return &port.PolicyError{Rule: capRule(role, limit)}
	}
	return nil
}

var numberWords = map[int]string{
	1: "one", 2: "two", 3: "three", 4: "four", 5: "five",
	6: "six", 7: "seven", 8: "eight", 9: "nine", 10: "ten",
}

func capRule(role domain.Role, limit int) string {
	word, ok := numberWords[limit]
	if !ok {
		word = strconv.Itoa(limit)
	}
	if limit == 1 {
		return fmt.Sprintf("There can only be one %s", role)
	}
	return fmt.Sprintf("There can be a maximum of %s %ss", word, role)
}
