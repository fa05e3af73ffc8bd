package api

import (
	"errors"                      // Sentinel errors for the order transaction
	"littlelemon/internal/domain" // Importing domain models
	"littlelemon/internal/roles"  // Role resolution and authorization policy
	"net/http"                    // HTTP status codes
	"time"                        // Timestamps for logging

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Sentinel errors surfaced by the order-creation transaction
var (
	errCartEmpty   = errors.New("cart is empty")                  // No lines to convert
	errCartChanged = errors.New("cart changed during order creation") // Lost the race against a concurrent create
)

// callerRoles resolves the caller id and role set for the current request.
// Roles are looked up fresh on every call since membership can change
// between requests. On failure it writes the error response and returns false.
func callerRoles(c *gin.Context, db *gorm.DB) (uint, roles.RoleSet, bool) {
	userID, exists := c.Get("userID") // Get userID from context
	// Check if userID exists in context
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, nil, false
	}
	set, err := roles.Resolve(db, userID.(uint)) // Resolve role set from group membership
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve roles"})
		return 0, nil, false
	}
	return userID.(uint), set, true
}

// orderQuery preloads the nested representations an order response exposes
func orderQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("DeliveryCrew").Preload("Items.MenuItem.Category")
}

// ListOrdersHandler returns orders scoped by the caller's role: managers see
// all orders, delivery crew the orders assigned to them, customers their own.
// A caller with none of the roles gets an empty list, not an error.
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, set, ok := callerRoles(c, db) // Resolve caller and roles
		if !ok {
			return
		}
		query := orderQuery(db).Order("id") // Base query with nested preloads
		// Scope the query by role
		switch {
		case set.Has(roles.Manager):
			// Managers see everything
		case set.Has(roles.DeliveryCrew):
			query = query.Where("delivery_crew_id = ?", userID) // Only assigned orders
		case set.Has(roles.Customer):
			query = query.Where("user_id = ?", userID) // Only own orders
		default:
			// No role: empty result, not an error
			c.JSON(http.StatusOK, gin.H{"orders": []domain.Order{}})
			return
		}
		var orders []domain.Order // Slice to hold orders
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders}) // Return the scoped listing
	}
}

// CreateOrderHandler converts the caller's cart into an order (customers
// only). The conversion is one transaction: the cart is re-read inside it,
// the order and its lines are staged from that snapshot and exactly those
// cart rows are deleted. A rows-affected mismatch on the delete means a
// concurrent create drained the cart first, and the whole order rolls back.
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, set, ok := callerRoles(c, db) // Resolve caller and roles
		if !ok {
			return
		}
		// Only customers can place orders
		if !roles.Allowed(set, roles.ActionOrderCreate) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only customers can place orders"})
			return
		}
		var order domain.Order // The order built inside the transaction
		err := db.Transaction(func(tx *gorm.DB) error {
			var lines []domain.CartItem // Cart snapshot read inside the transaction
			if err := tx.Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
				return err // Return error to rollback
			}
			// An empty cart cannot become an order
			if len(lines) == 0 {
				return errCartEmpty
			}
			var total float64 // Order total is the sum of the line prices
			for _, l := range lines {
				total += l.Price
			}
			// Stage the order
			order = domain.Order{UserID: userID, Status: domain.StatusPending, Total: total}
			if err := tx.Create(&order).Error; err != nil {
				return err // Return error to rollback
			}
			// Stage one immutable line snapshot per cart line
			items := make([]domain.OrderItem, len(lines))
			ids := make([]uint, len(lines)) // Cart line ids to drain
			for i, l := range lines {
				items[i] = domain.OrderItem{
					OrderID:    order.ID,    // Owning order
					MenuItemID: l.MenuItemID, // Menu item reference
					Quantity:   l.Quantity,  // Quantity snapshot
					UnitPrice:  l.UnitPrice, // Unit price snapshot
					Price:      l.Price,     // Computed line price
				}
				ids[i] = l.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err // Return error to rollback
			}
			// Drain exactly the cart rows read above
			res := tx.Where("id IN ?", ids).Delete(&domain.CartItem{})
			if res.Error != nil {
				return res.Error // Return error to rollback
			}
			// A concurrent create already consumed part of this cart
			if res.RowsAffected != int64(len(ids)) {
				return errCartChanged
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			switch {
			case errors.Is(err, errCartEmpty):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			case errors.Is(err, errCartChanged):
				c.JSON(http.StatusConflict, gin.H{"error": "Cart changed while placing the order"})
			default:
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // Customer user ID
					"error":   err.Error(), // Error message
				}).Error("Order creation failed") // Log order failure
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			}
			return
		}
		// Log the successful conversion
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,                          // Customer user ID
			"order_id":  order.ID,                        // Created order ID
			"total":     order.Total,                     // Order total
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Order created") // Log order creation
		orderQuery(db).First(&order, order.ID) // Reload with nested representations
		c.JSON(http.StatusCreated, order)      // Return the created order
	}
}

// fetchOrderScoped loads the order and applies per-role visibility: managers
// see any order, delivery crew only orders assigned to them (NotFound
// otherwise, no existence leakage), customers get Forbidden on orders they
// do not own. On failure it writes the error response and returns false.
func fetchOrderScoped(c *gin.Context, db *gorm.DB, userID uint, set roles.RoleSet) (*domain.Order, bool) {
	var order domain.Order // Order to fetch
	// Query by path id with nested representations
	if err := orderQuery(db).First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	switch {
	case set.Has(roles.Manager):
		// Managers see everything
	case set.Has(roles.DeliveryCrew):
		// Unassigned orders are invisible to the crew member
		if order.DeliveryCrewID == nil || *order.DeliveryCrewID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return nil, false
		}
	case set.Has(roles.Customer):
		// Customers may only see their own orders
		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return nil, false
		}
	default:
		// No role at all
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil, false
	}
	return &order, true
}

// GetOrderHandler returns a single order under the role scoping rules
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, set, ok := callerRoles(c, db) // Resolve caller and roles
		if !ok {
			return
		}
		order, ok := fetchOrderScoped(c, db, userID, set) // Load with visibility rules
		if !ok {
			return
		}
		c.JSON(http.StatusOK, order) // Return the order
	}
}

// OrderUpdateRequest represents a manager order update; nil fields are left
// untouched. Status and delivery crew are the only mutable order fields.
type OrderUpdateRequest struct {
	Status         *int  `json:"status"`           // New status, must be a valid transition
	DeliveryCrewID *uint `json:"delivery_crew_id"` // Crew assignment, must be a delivery_crew member
}

// UpdateOrderHandler updates an order (PUT and PATCH). Managers may update
// status and crew assignment; delivery crew may update only the status of
// orders assigned to them; customers are always rejected.
func UpdateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, set, ok := callerRoles(c, db) // Resolve caller and roles
		if !ok {
			return
		}
		// Customers cannot modify placed orders; the order stays untouched
		if !set.Has(roles.Manager) && !set.Has(roles.DeliveryCrew) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		order, ok := fetchOrderScoped(c, db, userID, set) // Load with visibility rules
		if !ok {
			return
		}
		// Managers get the full validated update
		if set.Has(roles.Manager) {
			var req OrderUpdateRequest // Bind JSON request to struct
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			updates := map[string]any{} // Columns to update
			if req.Status != nil {
				next := domain.OrderStatus(*req.Status) // Proposed status
				// The status enum is exhaustive for every caller, managers included
				if !order.Status.CanTransition(next) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
					return
				}
				updates["status"] = next
			}
			if req.DeliveryCrewID != nil {
				// The assignee must be an existing delivery_crew member
				crewRoles, err := roles.Resolve(db, *req.DeliveryCrewID)
				if err != nil || !crewRoles.Has(roles.DeliveryCrew) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "User is not in the delivery crew"})
					return
				}
				updates["delivery_crew_id"] = *req.DeliveryCrewID
			}
			// Apply the update if anything changed
			if len(updates) > 0 {
				if err := db.Model(order).Updates(updates).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
					return
				}
			}
			orderQuery(db).First(order, order.ID) // Reload with nested representations
			c.JSON(http.StatusOK, order)          // Return the updated order
			return
		}
		// Delivery crew: only the status field, only to a valid value. Any
		// other field in the request rejects the whole update untouched.
		var body map[string]any // Raw body to detect stray fields
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		for k := range body {
			if k != "status" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Only the status field can be updated by the delivery crew"})
				return
			}
		}
		raw, present := body["status"] // The proposed status value
		num, isNum := raw.(float64)    // JSON numbers decode as float64
		// The value must be exactly one of the defined statuses
		if !present || !isNum || num != float64(int(num)) || !domain.OrderStatus(int(num)).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only status 0 or 1 can be set by the delivery crew"})
			return
		}
		next := domain.OrderStatus(int(num)) // Proposed status
		// Delivered is terminal
		if !order.Status.CanTransition(next) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
			return
		}
		// Apply the status update
		if err := db.Model(order).Update("status", next).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}
		orderQuery(db).First(order, order.ID) // Reload with nested representations
		c.JSON(http.StatusOK, order)          // Return the updated order
	}
}

// DeleteOrderHandler deletes an order and its lines (managers only)
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, set, ok := callerRoles(c, db) // Resolve caller and roles
		if !ok {
			return
		}
		// Only managers may delete orders; checked before touching anything
		if !roles.Allowed(set, roles.ActionOrderDelete) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		order, ok := fetchOrderScoped(c, db, userID, set) // Load the order
		if !ok {
			return
		}
		// Delete the order and cascade its lines in one transaction
		err := db.Transaction(func(tx *gorm.DB) error {
			// Drop the line snapshots first
			if err := tx.Where("order_id = ?", order.ID).Delete(&domain.OrderItem{}).Error; err != nil {
				return err // Return error to rollback
			}
			return tx.Delete(&domain.Order{}, order.ID).Error // Then the order itself
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			return
		}
		c.Status(http.StatusNoContent) // Order deleted
	}
}
