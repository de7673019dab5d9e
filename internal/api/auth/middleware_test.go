package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motocare/motocare/internal/api/models"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	return r
}

func loginAs(r *gin.Engine, isAdmin bool) []*http.Cookie {
	r.GET("/test-login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionUserID, uint(42))
		session.Set(SessionUsername, "alice")
		session.Set(SessionEmail, "alice@example.com")
		session.Set(SessionIsAdmin, isAdmin)
		_ = session.Save()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test-login", nil)
	r.ServeHTTP(w, req)
	return w.Result().Cookies()
}

func TestRequireAuth(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/protected", RequireAuth(), func(c *gin.Context) {
		user := c.MustGet("user").(*models.User)
		c.JSON(http.StatusOK, user)
	})
	cookies := loginAs(r, false)

	t.Run("without session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("with session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice")
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("regular user is forbidden", func(t *testing.T) {
		r := newTestRouter(t)
		r.GET("/admin", RequireAuth(), RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		cookies := loginAs(r, false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		r := newTestRouter(t)
		r.GET("/admin", RequireAuth(), RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		cookies := loginAs(r, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
