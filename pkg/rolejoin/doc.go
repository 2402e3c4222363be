// Package rolejoin lists roles together with one user's assignments.
//
// The query loads the roles table and the user's rows of the user_roles
// link table from a store.Source and joins them in memory with
// groupjoin.RolesWithUserLinks, so every backend gives the same answer:
//
//	svc := rolejoin.NewService(s, log)
//	roles, err := svc.RolesByUser(ctx, 1)
//	for _, r := range roles {
//	    fmt.Println(r.Name, len(r.UserRoles) > 0)
//	}
package rolejoin
