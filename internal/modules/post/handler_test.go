package post

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
	NewHandler(NewService(db)).RegisterRoutes(api,
		middleware.OptionalAuth(signer, check),
		middleware.Auth(signer, check))

	return &handlerFixture{router: router, db: db, signer: signer}
}

func (f *handlerFixture) tokenFor(t *testing.T, user models.UserModel) string {
	t.Helper()
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

func TestCreateRequiresAuth(t *testing.T) {
	f := setupHandler(t)

	w := f.do(t, http.MethodPost, "/api/posts", "", `{"title":"Nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	author := createUser(t, f.db, "writer@example.com", false)
	w = f.do(t, http.MethodPost, "/api/posts", f.tokenFor(t, author), `{"title":"Hello World"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "hello-world", body["slug"])
}

func TestMutationPolicy(t *testing.T) {
	f := setupHandler(t)
	author := createUser(t, f.db, "writer@example.com", false)
	stranger := createUser(t, f.db, "stranger@example.com", false)
	staff := createUser(t, f.db, "staff@example.com", true)

	w := f.do(t, http.MethodPost, "/api/posts", f.tokenFor(t, author),
		`{"title":"Public Post","is_published":true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// A published post is visible but untouchable for non-owners.
	w = f.do(t, http.MethodDelete, "/api/posts/public-post", f.tokenFor(t, stranger), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Staff may mutate anyone's post.
	w = f.do(t, http.MethodPost, "/api/posts/public-post/toggle_publish", f.tokenFor(t, staff), "")
	assert.Equal(t, http.StatusOK, w.Code)

	// The author may delete their own.
	w = f.do(t, http.MethodDelete, "/api/posts/public-post", f.tokenFor(t, author), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDraftInvisibleToStrangersIs404(t *testing.T) {
	f := setupHandler(t)
	author := createUser(t, f.db, "writer@example.com", false)
	stranger := createUser(t, f.db, "stranger@example.com", false)

	w := f.do(t, http.MethodPost, "/api/posts", f.tokenFor(t, author), `{"title":"Secret Draft"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Reading or mutating an invisible draft both 404, never 403: the
	// response must not reveal the draft exists.
	w = f.do(t, http.MethodGet, "/api/posts/secret-draft", f.tokenFor(t, stranger), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(t, http.MethodDelete, "/api/posts/secret-draft", f.tokenFor(t, stranger), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/posts/secret-draft", f.tokenFor(t, author), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListEnvelope(t *testing.T) {
	f := setupHandler(t)
	author := createUser(t, f.db, "writer@example.com", false)
	w := f.do(t, http.MethodPost, "/api/posts", f.tokenFor(t, author),
		`{"title":"Published","is_published":true,"content":"full body here"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/api/posts", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []map[string]interface{} `json:"data"`
		Pag  struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, int64(1), body.Pag.Total)
	// List items carry the excerpt, not the full content.
	assert.NotContains(t, body.Data[0], "content")
	assert.Contains(t, body.Data[0], "excerpt")
}

func TestMyPostsRequiresAuth(t *testing.T) {
	f := setupHandler(t)

	w := f.do(t, http.MethodGet, "/api/posts/my_posts", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	author := createUser(t, f.db, "writer@example.com", false)
	w = f.do(t, http.MethodGet, "/api/posts/my_posts", f.tokenFor(t, author), "")
	assert.Equal(t, http.StatusOK, w.Code)
}
