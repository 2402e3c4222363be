package model

// UserRoles is a link row assigning a role to a user. The pair
// (UserID, RoleID) is the primary key.
type UserRoles struct {
	UserID int `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id" yaml:"user_id"`
	RoleID int `gorm:"column:role_id;primaryKey;autoIncrement:false" json:"role_id" yaml:"role_id"`
}

func (UserRoles) TableName() string {
	return "user_roles"
}

// Key returns the composite key of the link row.
func (ur UserRoles) Key() UserRoleKey {
	return UserRoleKey{UserID: ur.UserID, RoleID: ur.RoleID}
}

// UserRoleKey identifies a link row.
type UserRoleKey struct {
	UserID int
	RoleID int
}
