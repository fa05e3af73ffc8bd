package domain

// MenuItem Model
type MenuItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`  // Primary key
	Title      string   `gorm:"not null" json:"title"` // Item title, sanitized on write
	Price      float64  `gorm:"not null" json:"price"` // Unit price, business floor is 2
	Featured   bool     `json:"featured"`              // Featured flag
	CategoryID uint     `gorm:"not null" json:"-"`     // Foreign key to Category, write-only via category_id
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"` // Owning category, read-only nested
}
