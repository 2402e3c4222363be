package model

// User is an identity that can hold roles.
type User struct {
	ID        int         `gorm:"column:id;primaryKey;autoIncrement:false" json:"id" yaml:"id"`
	Name      string      `gorm:"column:name;not null" json:"name" yaml:"name"`
	UserRoles []UserRoles `gorm:"foreignKey:UserID;references:ID" json:"-" yaml:"-"`
}

func (User) TableName() string {
	return "users"
}
