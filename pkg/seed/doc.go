// Package seed loads users, roles and role assignments into a store.
//
// Fixtures are YAML documents:
//
//	users:
//	  - id: 1
//	    name: User 1
//	roles:
//	  - id: 1
//	    name: Role 1
//	user_roles:
//	  - user_id: 1
//	    role_id: 1
//
// Apply writes a fixture in one transaction, optionally resetting the store
// first. A Watcher re-applies a fixture file every time it changes.
package seed
