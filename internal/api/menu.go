package api

import (
	"context"                     // Context for Redis operations
	"errors"                      // Error matching
	"littlelemon/internal/domain" // Importing domain models
	"littlelemon/internal/utils"  // Utility functions
	"net/http"                    // HTTP status codes
	"strconv"                     // String conversion
	"time"                        // Time durations

	"github.com/gin-gonic/gin"         // Gin web framework
	"github.com/microcosm-cc/bluemonday" // HTML sanitizer
	"github.com/redis/go-redis/v9"     // Redis client
	"gorm.io/gorm"                     // GORM ORM library
)

// menuCachePrefix is the key prefix for cached menu listings
const menuCachePrefix = "menu:items:"

// titlePolicy strips all markup from user-supplied titles
var titlePolicy = bluemonday.StrictPolicy()

// MenuItemRequest represents a menu item create request
type MenuItemRequest struct {
	Title      string  `json:"title" binding:"required"`       // Item title
	Price      float64 `json:"price" binding:"required"`       // Unit price, must be >= 2
	Featured   bool    `json:"featured"`                       // Featured flag
	CategoryID int     `json:"category_id" binding:"required"` // Write-only category reference
}

// MenuItemUpdateRequest represents a menu item update; nil fields are left untouched
type MenuItemUpdateRequest struct {
	Title      *string  `json:"title"`       // New title, sanitized when present
	Price      *float64 `json:"price"`       // New price, floor applies when present
	Featured   *bool    `json:"featured"`    // New featured flag
	CategoryID *int     `json:"category_id"` // New category reference
}

// ListMenuItemsHandler returns the paginated menu. Open to anonymous callers
// and served from the Redis cache when possible, since this is the hottest
// read path in the system.
func ListMenuItemsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := 1      // Default page
		pageSize := 20 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			// Convert page_size to integer
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		ctx := context.Background() // Context for Redis operations
		// Cache key based on pagination parameters
		cacheKey := menuCachePrefix + "page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		var cached struct {
			Items      []domain.MenuItem `json:"menu_items"`  // List of menu items
			Page       int               `json:"page"`        // Current page
			PageSize   int               `json:"page_size"`   // Page size
			Total      int64             `json:"total"`       // Total menu items
			TotalPages int               `json:"total_pages"` // Total pages
		}
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"menu_items":  cached.Items,      // Cached menu items
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total menu items
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		var total int64 // Total menu item count
		// Count menu items for pagination
		if err := db.Model(&domain.MenuItem{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count menu items"})
			return
		}
		offset := (page - 1) * pageSize // Calculate offset
		var items []domain.MenuItem     // Slice to hold menu items
		// Fetch paginated menu items with their categories
		if err := db.Preload("Category").Order("id").Offset(offset).Limit(pageSize).Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu items"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		resp := gin.H{
			"menu_items":  items,      // List of menu items
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total menu items
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Not from cache
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp) // Return menu listing
	}
}

// GetMenuItemHandler returns a single menu item
func GetMenuItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item domain.MenuItem // Menu item to fetch
		// Query by path id with the owning category
		if err := db.Preload("Category").First(&item, c.Param("id")).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusOK, item) // Return the menu item
	}
}

// validateMenuItem applies the write-side business rules: titles are stripped
// of markup, the price floor is 2 and the category reference must resolve.
func validateMenuItem(db *gorm.DB, title *string, price *float64, categoryID *int) (string, bool) {
	if title != nil {
		*title = titlePolicy.Sanitize(*title) // Strip markup/script from the title
	}
	// Enforce the price floor
	if price != nil && *price < 2 {
		return "Price should not be less than 2", false
	}
	if categoryID != nil {
		// Category id must be a positive reference
		if *categoryID < 1 {
			return "Category id should not be negative or less than 1", false
		}
		// The referenced category must exist
		var category domain.Category
		if err := db.First(&category, *categoryID).Error; err != nil {
			return "Category does not exist", false
		}
	}
	return "", true
}

// CreateMenuItemHandler creates a menu item (managers only, gated by the router)
func CreateMenuItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MenuItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate title, price floor and category reference
		if msg, ok := validateMenuItem(db, &req.Title, &req.Price, &req.CategoryID); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		// Build the menu item
		item := domain.MenuItem{
			Title:      req.Title,             // Sanitized title
			Price:      req.Price,             // Validated price
			Featured:   req.Featured,          // Featured flag
			CategoryID: uint(req.CategoryID), // Category reference
		}
		// Save the new menu item
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
			return
		}
		db.Preload("Category").First(&item, item.ID)                        // Reload with the nested category
		_ = utils.DeleteCacheByPrefix(context.Background(), rdb, menuCachePrefix) // Invalidate cached listings
		c.JSON(http.StatusCreated, item)                                    // Return the created menu item
	}
}

// UpdateMenuItemHandler updates a menu item (managers only, gated by the
// router). Serves both PUT and PATCH; absent fields are left untouched.
func UpdateMenuItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item domain.MenuItem // Menu item to update
		// Query by path id
		if err := db.First(&item, c.Param("id")).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		var req MenuItemUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate whichever fields are present
		if msg, ok := validateMenuItem(db, req.Title, req.Price, req.CategoryID); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		// Apply the present fields
		if req.Title != nil {
			item.Title = *req.Title
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if req.Featured != nil {
			item.Featured = *req.Featured
		}
		if req.CategoryID != nil {
			item.CategoryID = uint(*req.CategoryID)
		}
		// Save the updated menu item
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
			return
		}
		db.Preload("Category").First(&item, item.ID)                        // Reload with the nested category
		_ = utils.DeleteCacheByPrefix(context.Background(), rdb, menuCachePrefix) // Invalidate cached listings
		c.JSON(http.StatusOK, item)                                         // Return the updated menu item
	}
}

// DeleteMenuItemHandler deletes a menu item (managers only, gated by the router)
func DeleteMenuItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item domain.MenuItem // Menu item to delete
		// Query by path id
		if err := db.First(&item, c.Param("id")).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		// Delete the menu item
		if err := db.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
			return
		}
		_ = utils.DeleteCacheByPrefix(context.Background(), rdb, menuCachePrefix) // Invalidate cached listings
		c.Status(http.StatusNoContent)                                      // Return no content
	}
}

// CategoryRequest represents a category create request
type CategoryRequest struct {
	Slug  string `json:"slug" binding:"required"`  // Unique URL slug
	Title string `json:"title" binding:"required"` // Display title
}

// ListCategoriesHandler returns all categories
func ListCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []domain.Category // Slice to hold categories
		// Fetch all categories in id order
		if err := db.Order("id").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories}) // Return categories
	}
}

// CreateCategoryHandler creates a category (managers only, gated by the router)
func CreateCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Build the category with a sanitized title
		category := domain.Category{Slug: req.Slug, Title: titlePolicy.Sanitize(req.Title)}
		// Save the new category
		if err := db.Create(&category).Error; err != nil {
			// Duplicate slug or other constraint violation
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Slug already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, category) // Return the created category
	}
}
