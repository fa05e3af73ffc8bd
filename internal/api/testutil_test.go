package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"littlelemon/internal/api"
	"littlelemon/internal/config"
	dbpkg "littlelemon/internal/db"
	"littlelemon/internal/domain"
	"littlelemon/internal/utils"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

var dbSeq int64

// testEnv bundles the real router with direct handles on its backing stores
type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	rdb    *redis.Client
}

// newTestEnv mounts the production router over a fresh in-memory database
// and an in-process redis
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, dbpkg.AutoMigrate(db))
	require.NoError(t, dbpkg.SeedGroups(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{JWTSecret: testSecret}
	return &testEnv{router: api.SetupRouter(db, rdb, cfg), db: db, rdb: rdb}
}

// createUser inserts a user, enrolls it in the given role groups and returns
// the user together with a valid bearer token
func (e *testEnv) createUser(t *testing.T, username string, groups ...string) (domain.User, string) {
	t.Helper()
	user := domain.User{Username: username, Password: "not-a-real-hash"}
	require.NoError(t, e.db.Create(&user).Error)
	for _, name := range groups {
		var group domain.Group
		require.NoError(t, e.db.Where("name = ?", name).First(&group).Error)
		require.NoError(t, e.db.Model(&user).Association("Groups").Append(&group))
	}
	token, err := utils.GenerateJWT(user.ID, testSecret)
	require.NoError(t, err)
	return user, token
}

// createCategory inserts a category directly
func (e *testEnv) createCategory(t *testing.T, slug, title string) domain.Category {
	t.Helper()
	category := domain.Category{Slug: slug, Title: title}
	require.NoError(t, e.db.Create(&category).Error)
	return category
}

// createMenuItem inserts a menu item directly
func (e *testEnv) createMenuItem(t *testing.T, title string, price float64, categoryID uint) domain.MenuItem {
	t.Helper()
	item := domain.MenuItem{Title: title, Price: price, CategoryID: categoryID}
	require.NoError(t, e.db.Create(&item).Error)
	return item
}

// do runs one request through the router and returns the recorded response
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the recorded JSON body into dest
func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}
