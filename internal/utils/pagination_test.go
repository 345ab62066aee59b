package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, 10, 0},
		{"explicit", "?page=3&limit=20", 3, 20, 40},
		{"page below minimum", "?page=0", 1, 10, 0},
		{"limit above maximum", "?limit=500", 1, 10, 0},
		{"garbage", "?page=abc&limit=xyz", 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/complaints"+tt.query, nil)

			params := GetPaginationParams(c)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}

func TestNewPaginationResponse(t *testing.T) {
	params := NewPaginationParams(1, 10)

	assert.Equal(t, 0, NewPaginationResponse(params, 0).Pages)
	assert.Equal(t, 1, NewPaginationResponse(params, 10).Pages)
	assert.Equal(t, 3, NewPaginationResponse(params, 21).Pages)
}
