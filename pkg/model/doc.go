// Package model defines the database models for rolejoin.
//
// This package contains GORM models for a many-to-many "users have roles"
// schema. The same structs are used by every storage backend and by the
// group join evaluator.
//
// # Core Models
//
//   - User: an identity (users table)
//   - Role: a named role (roles table)
//   - UserRoles: link row with composite key (user_id, role_id)
//
// # Database Schema
//
//   - users: id, name
//   - roles: id, name
//   - user_roles: user_id -> users.id, role_id -> roles.id
//
// Role.UserRoles is a navigation field. It is populated by the group join
// and is never written by the stores.
package model
