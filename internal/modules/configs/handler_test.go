package configs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quill-cms/core/internal/middleware"
	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type handlerFixture struct {
	router *gin.Engine
	db     *gorm.DB
	signer *jwt.Signer
}

func setupHandler(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}))

	signer := jwt.NewSigner("test-secret", time.Minute, time.Hour)
	check := func(userID string) (bool, bool, error) {
		var user models.UserModel
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return false, false, err
		}
		return user.IsStaff, user.IsActive, nil
	}

	router := gin.New()
	api := router.Group("/api")
	handler := NewHandler(NewService(db))
	handler.RegisterRoutes(api, middleware.Auth(signer, check), middleware.RequireStaff())
	handler.RegisterPublicRoutes(api)

	return &handlerFixture{router: router, db: db, signer: signer}
}

func (f *handlerFixture) tokenFor(t *testing.T, staff bool) string {
	t.Helper()
	user := models.UserModel{Email: "acct@example.com", Password: "x", IsActive: true, IsStaff: staff}
	if staff {
		user.Email = "staff@example.com"
	}
	require.NoError(t, f.db.Create(&user).Error)

	token, err := f.signer.SignAccess(jwt.Snapshot{UserID: user.ID, Email: user.Email})
	require.NoError(t, err)
	return token
}

func (f *handlerFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAdminRoutesRequireStaff(t *testing.T) {
	f := setupHandler(t)

	w := f.do(t, http.MethodGet, "/api/configurations", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	plain := f.tokenFor(t, false)
	w = f.do(t, http.MethodGet, "/api/configurations", plain, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	staff := f.tokenFor(t, true)
	w = f.do(t, http.MethodGet, "/api/configurations", staff, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAndPatchLifecycle(t *testing.T) {
	f := setupHandler(t)
	staff := f.tokenFor(t, true)

	w := f.do(t, http.MethodPost, "/api/configurations", staff,
		`{"key":"posts_per_page","label":"Posts per page","type":"number","value":"10"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPatch, "/api/configurations/posts_per_page", staff, `{"value":"25"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodPatch, "/api/configurations/posts_per_page", staff, `{"value":"lots"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "value")

	w = f.do(t, http.MethodPatch, "/api/configurations/no_such_key", staff, `{"value":"1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRequiredConfigurationIsBadRequest(t *testing.T) {
	f := setupHandler(t)
	staff := f.tokenFor(t, true)
	require.NoError(t, f.db.Create(&models.ConfigurationModel{
		Key: "site_name", Label: "Site name", IsRequired: true, Value: "x",
	}).Error)

	w := f.do(t, http.MethodDelete, "/api/configurations/site_name", staff, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaticRoutesNotShadowedByKeyParam(t *testing.T) {
	f := setupHandler(t)
	staff := f.tokenFor(t, true)

	w := f.do(t, http.MethodGet, "/api/configurations/categories", staff, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string][]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body["data"], len(Categories))

	w = f.do(t, http.MethodGet, "/api/configurations/types", staff, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPublicEndpointsOpen(t *testing.T) {
	f := setupHandler(t)
	require.NoError(t, f.db.Create(&models.ConfigurationModel{
		Key: "site_name", Label: "Site name", Category: CategorySite,
		Value: "My Site", IsPublic: true,
	}).Error)
	require.NoError(t, f.db.Create(&models.ConfigurationModel{
		Key: "smtp_password", Label: "SMTP password", Category: CategoryEmail,
		Value: "hunter2",
	}).Error)

	w := f.do(t, http.MethodGet, "/api/public/configurations", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var values map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &values))
	assert.Contains(t, values, "site_name")
	assert.NotContains(t, values, "smtp_password")

	w = f.do(t, http.MethodGet, "/api/public/site-info", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "My Site", info[CategorySite]["site_name"])
}

func TestResetToDefaultsAcceptsEmptyBody(t *testing.T) {
	f := setupHandler(t)
	staff := f.tokenFor(t, true)
	require.NoError(t, f.db.Create(&models.ConfigurationModel{
		Key: "site_name", Label: "Site name",
		Value: "Changed", DefaultValue: "My Site",
	}).Error)

	w := f.do(t, http.MethodPost, "/api/configurations/reset_to_defaults", staff, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var entry models.ConfigurationModel
	require.NoError(t, f.db.First(&entry, "`key` = ?", "site_name").Error)
	assert.Equal(t, "My Site", entry.Value)
}
