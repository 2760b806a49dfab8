package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PartyHub/utils/apperror"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(), ErrorHandler())
	return r
}

func TestErrorHandlerWritesNormalizedBody(t *testing.T) {
	r := newRouter()
	r.GET("/plain", func(c *gin.Context) { Fail(c, errors.New("boom")) })
	r.GET("/typed", func(c *gin.Context) { Fail(c, apperror.BadRequest("bad_plan", "unknown plan")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"boom"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/typed", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unknown plan", body["message"])
	assert.Equal(t, "bad_plan", body["code"])
}

func TestErrorHandlerKeepsWrittenResponse(t *testing.T) {
	r := newRouter()
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(errors.New("late"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}
