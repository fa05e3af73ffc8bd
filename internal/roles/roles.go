package roles

import (
	"gorm.io/gorm" // GORM ORM library
)

// Role is one of the three role groups a user can belong to.
type Role string

const (
	Manager      Role = "manager"       // May administer groups, menu and orders
	DeliveryCrew Role = "delivery_crew" // May update status of assigned orders
	Customer     Role = "customer"      // May use the cart and place orders
)

// RoleSet is the set of roles a caller holds. An empty set means the caller
// is authenticated but holds no role, which every role-gated check treats
// as a denial.
type RoleSet map[Role]bool

// Has reports whether the set contains the given role.
func (s RoleSet) Has(r Role) bool { return s[r] }

// Resolve looks up the caller's roles from group membership. It runs a fresh
// query on every request: role membership can change between requests, so
// the result must never be cached.
func Resolve(db *gorm.DB, userID uint) (RoleSet, error) {
	var names []string // Group names the user belongs to
	err := db.Table("groups").
		Joins("JOIN user_groups ON user_groups.group_id = groups.id").
		Where("user_groups.user_id = ?", userID).
		Pluck("groups.name", &names).Error
	if err != nil {
		return nil, err // Lookup failed
	}
	set := RoleSet{} // Build the set, ignoring unknown groups
	for _, n := range names {
		switch Role(n) {
		case Manager, DeliveryCrew, Customer:
			set[Role(n)] = true
		}
	}
	return set, nil
}

// Action is a role-gated operation on the API.
type Action string

const (
	ActionMenuWrite   Action = "menu:write"   // Create/update/delete menu items and categories
	ActionGroupAdmin  Action = "group:admin"  // List/add/remove group members
	ActionCartUse     Action = "cart:use"     // List/add/clear the caller's cart
	ActionOrderCreate Action = "order:create" // Place an order from the cart
	ActionOrderDelete Action = "order:delete" // Delete an order
)

// policy maps each action to the roles allowed to perform it. Keeping the
// rules in one table avoids the per-endpoint drift that ad-hoc membership
// checks cause.
var policy = map[Action][]Role{
	ActionMenuWrite:   {Manager},
	ActionGroupAdmin:  {Manager},
	ActionCartUse:     {Customer},
	ActionOrderCreate: {Customer},
	ActionOrderDelete: {Manager},
}

// Allowed reports whether a caller holding the given roles may perform the
// action. Unknown actions are denied.
func Allowed(s RoleSet, a Action) bool {
	for _, r := range policy[a] {
		if s.Has(r) {
			return true
		}
	}
	return false
}
