package domain

// CartItem Model: a pending, mutable quantity of one menu item for one customer.
// At most one line exists per (user, menu item) pair; adding the same item
// again merges into the existing line.
type CartItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`                             // Primary key
	UserID     uint     `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"-"` // Owning user
	MenuItemID uint     `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"-"` // Foreign key to MenuItem
	MenuItem   MenuItem `json:"menuitem"`                                         // Read-only nested menu item
	Quantity   int      `gorm:"not null" json:"quantity"`                         // Always >= 1
	UnitPrice  float64  `gorm:"not null" json:"unit_price"`                       // Price snapshot taken at add time
	Price      float64  `gorm:"not null" json:"price"`                            // UnitPrice * Quantity
}
