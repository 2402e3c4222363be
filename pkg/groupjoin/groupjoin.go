package groupjoin

import "github.com/doodlesbykumbi/rolejoin/pkg/model"

// Group is one left row with the right rows that matched it.
// Inner is never nil.
type Group[L, R any] struct {
	Outer L
	Inner []R
}

// GroupJoin computes the left-outer group join of left and right.
//
// An index from key to matching right rows is built in one pass over right,
// skipping rows for which keep returns false (keep may be nil). Each left row
// then probes the index once. Inner rows keep their order in right.
func GroupJoin[L, R any, K comparable](
	left []L,
	right []R,
	leftKey func(L) K,
	rightKey func(R) K,
	keep func(R) bool,
) []Group[L, R] {
	index := make(map[K][]R)
	for _, r := range right {
		if keep != nil && !keep(r) {
			continue
		}
		k := rightKey(r)
		index[k] = append(index[k], r)
	}

	groups := make([]Group[L, R], 0, len(left))
	for _, l := range left {
		matches := index[leftKey(l)]
		inner := make([]R, len(matches))
		copy(inner, matches)
		groups = append(groups, Group[L, R]{Outer: l, Inner: inner})
	}
	return groups
}

// RolesWithUserLinks returns every role with the link rows that assign it
// to userID.
//
// The result has one entry per input role, in input order. A role's
// UserRoles holds each link with a matching RoleID and UserID, and is an
// empty non-nil slice when there is none. links may be the full link table
// or one already filtered by user; the result is the same. The inputs are
// not modified.
func RolesWithUserLinks(roles []model.Role, links []model.UserRoles, userID int) []model.Role {
	groups := GroupJoin(
		roles,
		links,
		func(r model.Role) int { return r.ID },
		func(ur model.UserRoles) int { return ur.RoleID },
		func(ur model.UserRoles) bool { return ur.UserID == userID },
	)

	result := make([]model.Role, 0, len(groups))
	for _, g := range groups {
		role := g.Outer
		role.UserRoles = g.Inner
		result = append(result, role)
	}
	return result
}
