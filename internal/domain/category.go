package domain

// Category Model
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`        // Primary key
	Slug  string `gorm:"unique;not null" json:"slug"` // Unique URL slug
	Title string `gorm:"not null" json:"title"`       // Display title
}
