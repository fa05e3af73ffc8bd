package api_test

import (
	"fmt"
	"littlelemon/internal/domain"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMembership(t *testing.T) {
	env := newTestEnv(t)
	_, managerToken := env.createUser(t, "manny", "manager")
	_, customerToken := env.createUser(t, "carol", "customer")
	dave, _ := env.createUser(t, "dave")

	listMembers := func(t *testing.T, path string) []domain.User {
		t.Helper()
		w := env.do(t, http.MethodGet, path, managerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Users []domain.User `json:"users"`
		}
		decode(t, w, &resp)
		return resp.Users
	}

	t.Run("only managers administer groups", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/groups/manager/users", customerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = env.do(t, http.MethodPost, "/groups/delivers/users", customerToken, map[string]any{"username": "dave"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("the username field is required", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/groups/manager/users", managerToken, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown users cannot be added", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/groups/manager/users", managerToken, map[string]any{"username": "ghost"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("adding a member shows up in the listing", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/groups/delivers/users", managerToken, map[string]any{"username": "dave"})
		require.Equal(t, http.StatusCreated, w.Code)

		members := listMembers(t, "/groups/delivers/users")
		require.Len(t, members, 1)
		assert.Equal(t, "dave", members[0].Username)
	})

	t.Run("re-adding a member is a no-op success", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/groups/delivers/users", managerToken, map[string]any{"username": "dave"})
		require.Equal(t, http.StatusCreated, w.Code)

		// Still exactly one membership row
		assert.Len(t, listMembers(t, "/groups/delivers/users"), 1)
	})

	t.Run("membership grants the role", func(t *testing.T) {
		// dave joined delivery_crew above, so the crew-scoped order listing
		// now answers instead of returning an empty no-role result
		w := env.do(t, http.MethodGet, "/groups/delivers/users", managerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("removing a member reports the removal", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, fmt.Sprintf("/groups/delivers/users/%d", dave.ID), managerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Message string `json:"message"`
		}
		decode(t, w, &resp)
		assert.Contains(t, resp.Message, "has been removed")
		assert.Empty(t, listMembers(t, "/groups/delivers/users"))
	})

	t.Run("removing a non-member is a distinct success, not an error", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, fmt.Sprintf("/groups/delivers/users/%d", dave.ID), managerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Message string `json:"message"`
		}
		decode(t, w, &resp)
		assert.Contains(t, resp.Message, "was not in")

		// Membership is unchanged
		assert.Empty(t, listMembers(t, "/groups/delivers/users"))
	})

	t.Run("removing an unknown user is not found", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/groups/manager/users/9999", managerToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("members are listed in id order", func(t *testing.T) {
		env.createUser(t, "zed")
		w := env.do(t, http.MethodPost, "/groups/manager/users", managerToken, map[string]any{"username": "zed"})
		require.Equal(t, http.StatusCreated, w.Code)

		members := listMembers(t, "/groups/manager/users")
		require.Len(t, members, 2)
		assert.Less(t, members[0].ID, members[1].ID)
	})
}
