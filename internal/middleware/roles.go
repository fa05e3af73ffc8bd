package middleware

import (
	"littlelemon/internal/roles" // Role resolution and authorization policy
	"net/http"                   // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// RequireAction resolves the caller's roles from the database on each request
// and aborts with Forbidden unless the authorization policy allows the action.
// Resolution is per-request on purpose: role membership can change between
// requests and must never be cached.
func RequireAction(db *gorm.DB, action roles.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		set, err := roles.Resolve(db, userID.(uint)) // Resolve role set from group membership
		if err != nil {
			// If lookup fails, abort with internal server error
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve roles"})
			return
		}
		// Consult the single policy table
		if !roles.Allowed(set, action) {
			// If denied, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Set("roles", set) // Store resolved roles for the handler
		c.Next()            // Proceed to the next handler
	}
}
