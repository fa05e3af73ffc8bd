package api_test

import (
	"littlelemon/internal/domain"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "mains", "Mains")
	pasta := env.createMenuItem(t, "Pasta", 9.5, category.ID)
	_, customerToken := env.createUser(t, "carol", "customer")
	_, crewToken := env.createUser(t, "dave", "delivery_crew")

	t.Run("only customers reach the cart", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cart/menu-items", crewToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("menuitem_id is required", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/cart/menu-items", customerToken, map[string]any{"quantity": 2})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("the menu item reference must resolve", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/cart/menu-items", customerToken, map[string]any{"menuitem_id": 999})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("quantity defaults to 1 and the unit price is snapshotted", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/cart/menu-items", customerToken, map[string]any{"menuitem_id": pasta.ID})
		require.Equal(t, http.StatusCreated, w.Code)
		var line domain.CartItem
		decode(t, w, &line)
		assert.Equal(t, 1, line.Quantity)
		assert.InDelta(t, 9.5, line.UnitPrice, 0.001)
		assert.InDelta(t, 9.5, line.Price, 0.001)
	})

	t.Run("adding the same item again merges into one line", func(t *testing.T) {
		// 1 is already in the cart from the previous step; add 2 then 3 more
		w := env.do(t, http.MethodPost, "/cart/menu-items", customerToken,
			map[string]any{"menuitem_id": pasta.ID, "quantity": 2})
		require.Equal(t, http.StatusOK, w.Code) // Merged, not created

		w = env.do(t, http.MethodPost, "/cart/menu-items", customerToken,
			map[string]any{"menuitem_id": pasta.ID, "quantity": 3})
		require.Equal(t, http.StatusOK, w.Code)
		var line domain.CartItem
		decode(t, w, &line)
		assert.Equal(t, 6, line.Quantity)
		assert.InDelta(t, 9.5*6, line.Price, 0.001)

		// Exactly one line exists
		w = env.do(t, http.MethodGet, "/cart/menu-items", customerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Cart []domain.CartItem `json:"cart"`
		}
		decode(t, w, &resp)
		require.Len(t, resp.Cart, 1)
		assert.Equal(t, 6, resp.Cart[0].Quantity)
		assert.Equal(t, "Pasta", resp.Cart[0].MenuItem.Title)
	})

	t.Run("negative quantities are rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/cart/menu-items", customerToken,
			map[string]any{"menuitem_id": pasta.ID, "quantity": -2})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("clearing a cart with lines returns no content", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/cart/menu-items", customerToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		var count int64
		require.NoError(t, env.db.Model(&domain.CartItem{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("clearing an empty cart is a benign distinct success", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/cart/menu-items", customerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Message string `json:"message"`
		}
		decode(t, w, &resp)
		assert.Contains(t, resp.Message, "already empty")
	})

	t.Run("cart listings are scoped to the caller", func(t *testing.T) {
		_, otherToken := env.createUser(t, "erin", "customer")
		w := env.do(t, http.MethodPost, "/cart/menu-items", otherToken,
			map[string]any{"menuitem_id": pasta.ID, "quantity": 1})
		require.Equal(t, http.StatusCreated, w.Code)

		// The first customer's cart stays empty
		w = env.do(t, http.MethodGet, "/cart/menu-items", customerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Cart []domain.CartItem `json:"cart"`
		}
		decode(t, w, &resp)
		assert.Empty(t, resp.Cart)
	})
}
