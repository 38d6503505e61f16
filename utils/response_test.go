package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return w
}

func TestSuccessResponse(t *testing.T) {
	w := record(func(c *gin.Context) {
		Success(c, "done", gin.H{"value": 1})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "done", resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name string
		fn   func(c *gin.Context)
		code int
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "bad", nil) }, http.StatusBadRequest},
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "no") }, http.StatusUnauthorized},
		{"payment required", func(c *gin.Context) { PaymentRequired(c, "broke") }, http.StatusPaymentRequired},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "nope") }, http.StatusForbidden},
		{"not found", func(c *gin.Context) { NotFound(c, "gone") }, http.StatusNotFound},
		{"conflict", func(c *gin.Context) { Conflict(c, "dup", nil) }, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := record(tt.fn)
			assert.Equal(t, tt.code, w.Code)

			var resp StandardResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
		})
	}
}

func TestSuccessWithPagination(t *testing.T) {
	w := record(func(c *gin.Context) {
		SuccessWithPagination(c, "page", []int{1, 2, 3}, 7, 2, 3)
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	pagination := resp["pagination"].(map[string]interface{})
	assert.Equal(t, float64(7), pagination["total"])
	assert.Equal(t, float64(3), pagination["total_pages"])
}
