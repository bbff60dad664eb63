package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination(t *testing.T) {
	t.Run("默认值", func(t *testing.T) {
		p := PaginationRequest{}
		assert.Equal(t, 0, p.GetOffset())
		assert.Equal(t, 20, p.GetPageSize())
	})

	t.Run("偏移量计算", func(t *testing.T) {
		p := PaginationRequest{Page: 3, PageSize: 10}
		assert.Equal(t, 20, p.GetOffset())
	})

	t.Run("每页数量上限", func(t *testing.T) {
		p := PaginationRequest{PageSize: 500}
		assert.Equal(t, 100, p.GetPageSize())
	})
}

func TestResponseErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		code       int
		wantStatus int
	}{
		{CodeInvalidRequest, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeInternalError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		ResponseError(c, tc.code, "boom")

		assert.Equal(t, tc.wantStatus, w.Code, "code=%d", tc.code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, tc.code, resp.Code)
		assert.Equal(t, "boom", resp.Message)
	}
}

func TestResponseList(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := &PaginationRequest{Page: 1, PageSize: 10}
	ResponseList(c, []string{"a", "b"}, 25, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Pagination PaginationMeta `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(25), resp.Data.Pagination.Total)
	assert.Equal(t, 3, resp.Data.Pagination.TotalPages)
}
