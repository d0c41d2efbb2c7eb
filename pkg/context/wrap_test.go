package context

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"Socio/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/", Wrap(h))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestWrap_BizError(t *testing.T) {
	w := serve(func(c *gin.Context) error {
		return response.NewError(http.StatusBadRequest, "bad input")
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "bad input", body.Msg)
}

func TestWrap_InternalErrorIsHidden(t *testing.T) {
	w := serve(func(c *gin.Context) error {
		return errors.New("dial tcp 10.0.0.1:3306: connection refused")
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "3306")
	assert.Contains(t, w.Body.String(), response.MsgInternal)
}

func TestWrap_Success(t *testing.T) {
	w := serve(func(c *gin.Context) error {
		response.Success(c, gin.H{"ok": true})
		return nil
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":200,"msg":"success","data":{"ok":true}}`, w.Body.String())
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetUserID(c)
	assert.ErrorIs(t, err, ErrNoUser)

	c.Set(CtxUserID, int64(7))
	uid, err := GetUserID(c)
	require.NoError(t, err)
	assert.Equal(t, int64(7), uid)
}
