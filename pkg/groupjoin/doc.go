// Package groupjoin evaluates left-outer group joins over in-memory tables.
//
// A group join pairs every row of the left sequence with the (possibly
// empty) list of right rows sharing its key. No left row is ever dropped or
// duplicated, and the left order is kept.
//
//	roles := groupjoin.RolesWithUserLinks(roles, links, 1)
//	for _, r := range roles {
//	    fmt.Println(r.Name, len(r.UserRoles))
//	}
//
// The functions here are pure. They read their inputs, allocate new
// output, and keep no state between calls, so they may be called from any
// number of goroutines as long as each caller's inputs are not being
// written to during the call.
package groupjoin
