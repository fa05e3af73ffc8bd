package api

import (
	"littlelemon/internal/domain" // Importing domain models
	"net/http"                    // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CartAddRequest represents an add-to-cart request
type CartAddRequest struct {
	MenuItemID uint `json:"menuitem_id" binding:"required"` // Write-only menu item reference
	Quantity   int  `json:"quantity"`                       // Quantity to add, defaults to 1
}

// ListCartHandler returns the caller's cart lines (customers only, gated by
// the router). The listing is scoped strictly to the caller.
func ListCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uint) // Caller set by the JWT middleware
		var lines []domain.CartItem          // Slice to hold cart lines
		// Fetch the caller's cart lines with their menu items
		if err := db.Preload("MenuItem.Category").Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": lines}) // Return the cart
	}
}

// AddCartItemHandler adds a menu item to the caller's cart (customers only,
// gated by the router). Adding an item that is already in the cart merges
// into the existing line (200) instead of creating a duplicate (201).
func AddCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uint) // Caller set by the JWT middleware
		var req CartAddRequest               // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Missing menu item reference or malformed body
			c.JSON(http.StatusBadRequest, gin.H{"error": "The 'menuitem_id' field is required"})
			return
		}
		// Default quantity is 1
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		// Quantity must stay positive
		if req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
			return
		}
		var item domain.MenuItem // Referenced menu item
		// The menu item reference must resolve
		if err := db.First(&item, req.MenuItemID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "The specified menu item does not exist"})
			return
		}
		var line domain.CartItem // Existing line for (caller, item), if any
		// Check for an existing line to merge into
		if err := db.Where("user_id = ? AND menu_item_id = ?", userID, item.ID).First(&line).Error; err == nil {
			line.Quantity += req.Quantity              // Merge the quantities
			line.Price = line.UnitPrice * float64(line.Quantity) // Recompute the line price
			// Save the merged line
			if err := db.Save(&line).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
				return
			}
			db.Preload("MenuItem.Category").First(&line, line.ID) // Reload with the nested menu item
			c.JSON(http.StatusOK, line)                           // Updated existing line
			return
		}
		// No existing line: snapshot the unit price and create one
		line = domain.CartItem{
			UserID:     userID,                              // Owning user
			MenuItemID: item.ID,                             // Menu item reference
			Quantity:   req.Quantity,                        // Requested quantity
			UnitPrice:  item.Price,                          // Price snapshot at add time
			Price:      item.Price * float64(req.Quantity), // Computed line price
		}
		// Save the new line
		if err := db.Create(&line).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
			return
		}
		db.Preload("MenuItem.Category").First(&line, line.ID) // Reload with the nested menu item
		c.JSON(http.StatusCreated, line)                      // Created a new line
	}
}

// ClearCartHandler deletes all of the caller's cart lines (customers only,
// gated by the router). An already-empty cart is a benign success with a
// distinct response shape, not an error.
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uint) // Caller set by the JWT middleware
		// Delete every line owned by the caller
		res := db.Where("user_id = ?", userID).Delete(&domain.CartItem{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		// Nothing was deleted: the cart was already empty
		if res.RowsAffected == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Your cart is already empty"})
			return
		}
		c.Status(http.StatusNoContent) // Cart cleared
	}
}
