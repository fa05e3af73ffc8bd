package api

import (
	"littlelemon/internal/domain" // Importing domain models
	"net/http"                    // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// GroupAddRequest represents an add-member request
type GroupAddRequest struct {
	Username string `json:"username"` // Username of the user to add
}

// findGroup loads the named group. On failure it writes the NotFound
// response and returns false.
func findGroup(c *gin.Context, db *gorm.DB, name string) (*domain.Group, bool) {
	var group domain.Group // Group to fetch
	if err := db.Where("name = ?", name).First(&group).Error; err != nil {
		// The group itself is missing
		c.JSON(http.StatusNotFound, gin.H{"error": "The '" + name + "' group does not exist"})
		return nil, false
	}
	return &group, true
}

// ListGroupMembersHandler returns the members of the named group in id order
// (managers only, gated by the router)
func ListGroupMembersHandler(db *gorm.DB, groupName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, ok := findGroup(c, db, groupName) // Load the group
		if !ok {
			return
		}
		var users []domain.User // Slice to hold members
		// Fetch the members through the join table in id order
		err := db.Joins("JOIN user_groups ON user_groups.user_id = users.id").
			Where("user_groups.group_id = ?", group.ID).
			Order("users.id").
			Find(&users).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch group members"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users}) // Return the members
	}
}

// AddGroupMemberHandler adds an existing user to the named group (managers
// only, gated by the router). Adding a user who is already a member is a
// no-op success.
func AddGroupMemberHandler(db *gorm.DB, groupName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, ok := findGroup(c, db, groupName) // Load the group
		if !ok {
			return
		}
		var req GroupAddRequest // Bind JSON request to struct
		_ = c.ShouldBindJSON(&req)
		// The username field is required
		if req.Username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "The 'username' field is required"})
			return
		}
		var user domain.User // User to add
		// The user must already exist
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "The user '" + req.Username + "' does not exist"})
			return
		}
		// Membership check keeps the add idempotent
		var count int64
		db.Table("user_groups").Where("user_id = ? AND group_id = ?", user.ID, group.ID).Count(&count)
		if count == 0 {
			// Append the membership row
			if err := db.Model(&user).Association("Groups").Append(group); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add user to group"})
				return
			}
		}
		// Adding an existing member lands here too, as a success
		c.JSON(http.StatusCreated, gin.H{"message": "The user '" + req.Username + "' has been added to the '" + groupName + "' group"})
	}
}

// RemoveGroupMemberHandler removes a user from the named group (managers
// only, gated by the router). Removing a user who was never a member is a
// distinct success outcome, not an error: callers rely on telling the two
// apart.
func RemoveGroupMemberHandler(db *gorm.DB, groupName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, ok := findGroup(c, db, groupName) // Load the group
		if !ok {
			return
		}
		var user domain.User // User to remove
		// The user must exist
		if err := db.First(&user, c.Param("userId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "There is no user with id " + c.Param("userId")})
			return
		}
		// Check current membership to pick the right outcome
		var count int64
		db.Table("user_groups").Where("user_id = ? AND group_id = ?", user.ID, group.ID).Count(&count)
		if count == 0 {
			// Not a member: benign success, membership unchanged
			c.JSON(http.StatusOK, gin.H{"message": "User '" + user.Username + "' was not in the '" + groupName + "' group"})
			return
		}
		// Remove the membership row
		if err := db.Model(&user).Association("Groups").Delete(group); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove user from group"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "The user '" + user.Username + "' has been removed from the '" + groupName + "' group"})
	}
}
