package domain

import "time"

// OrderStatus is the lifecycle state of an order. Orders start out pending
// and end up delivered; delivered is terminal.
type OrderStatus int

const (
	StatusPending   OrderStatus = 0 // Order placed, not yet delivered
	StatusDelivered OrderStatus = 1 // Order delivered, terminal state
)

// Valid reports whether s is one of the defined statuses.
func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusDelivered
}

// CanTransition reports whether moving from s to the given status is allowed.
// Setting the same status again is a permitted no-op; a delivered order can
// never go back to pending.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if !s.Valid() || !to.Valid() {
		return false
	}
	if s == StatusDelivered && to == StatusPending {
		return false
	}
	return true
}

// String returns the status name for logging.
func (s OrderStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDelivered:
		return "delivered"
	}
	return "invalid"
}

// Order Model: immutable once created except for Status and DeliveryCrewID.
type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`     // Primary key
	UserID         uint        `gorm:"not null;index" json:"-"`  // Owning customer
	User           User        `json:"user"`                     // Read-only nested customer
	DeliveryCrewID *uint       `json:"-"`                        // Assigned delivery crew, nil until assigned
	DeliveryCrew   *User       `gorm:"foreignKey:DeliveryCrewID" json:"delivery_crew"` // Read-only nested crew member
	Status         OrderStatus `gorm:"not null;default:0" json:"status"`               // Lifecycle state
	Total          float64     `gorm:"not null" json:"total"`                          // Sum of the order line prices
	Date           time.Time   `gorm:"autoCreateTime" json:"date"`                     // Creation time
	Items          []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"` // Lines, cascade on delete
}

// OrderItem Model: an immutable snapshot of a cart line taken at order
// creation time. Never mutated afterwards.
type OrderItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`       // Primary key
	OrderID    uint     `gorm:"not null;index" json:"-"`    // Owning order
	MenuItemID uint     `gorm:"not null" json:"-"`          // Foreign key to MenuItem
	MenuItem   MenuItem `json:"menuitem"`                   // Read-only nested menu item
	Quantity   int      `gorm:"not null" json:"quantity"`   // Quantity snapshot
	UnitPrice  float64  `gorm:"not null" json:"unit_price"` // Unit price snapshot
	Price      float64  `gorm:"not null" json:"price"`      // UnitPrice * Quantity
}
