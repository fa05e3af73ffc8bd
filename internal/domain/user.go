package domain

// User Model
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`           // Primary key
	Username string  `gorm:"unique;not null" json:"username"` // Unique username
	Password string  `gorm:"not null" json:"-"`              // Hashed password, never serialized
	Groups   []Group `gorm:"many2many:user_groups" json:"-"` // Role groups the user belongs to
}

// Group Model (role membership: manager, delivery_crew, customer)
type Group struct {
	ID    uint   `gorm:"primaryKey" json:"id"`           // Primary key
	Name  string `gorm:"unique;not null" json:"name"`    // Unique group name
	Users []User `gorm:"many2many:user_groups" json:"-"` // Members of the group
}
