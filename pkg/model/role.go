package model

// Role is a named permission set that users can be assigned to.
//
// UserRoles is never persisted through this struct. It is filled in by the
// group join and is always non-nil on a joined result.
type Role struct {
	ID        int         `gorm:"column:id;primaryKey;autoIncrement:false" json:"id" yaml:"id"`
	Name      string      `gorm:"column:name;not null" json:"name" yaml:"name"`
	UserRoles []UserRoles `gorm:"foreignKey:RoleID;references:ID" json:"user_roles" yaml:"-"`
}

func (Role) TableName() string {
	return "roles"
}
