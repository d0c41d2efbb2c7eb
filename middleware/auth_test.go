package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Socio/pkg/context"
	"Socio/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinZap(), PrometheusMiddleware())
	r.GET("/me", Auth(secret), func(c *gin.Context) {
		uid, err := context.GetUserID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": uid})
	})
	return r
}

func TestAuth(t *testing.T) {
	r := newEngine()

	token, err := jwt.GenerateToken(secret, 42, jwt.TypeAccess, time.Minute)
	require.NoError(t, err)
	expired, err := jwt.GenerateToken(secret, 42, jwt.TypeAccess, -time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token " + token, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"uid":42}`, w.Body.String())
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws?token=query-token", nil)
	assert.Equal(t, "query-token", TokenFromRequest(req))

	req.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", TokenFromRequest(req))

	req.Header.Set("Authorization", "Basic xxx")
	assert.Empty(t, TokenFromRequest(req))
}
