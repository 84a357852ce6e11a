package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	res "github.com/mooner2666/inke3/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) res.Response {
	t.Helper()
	var body res.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   res.ResponseCode
	}{
		{"业务错误", res.NewForbidden("无权限"), http.StatusForbidden, res.Forbidden},
		{"包装的业务错误", errors.Join(errors.New("ctx"), res.NewConflict("重复")), http.StatusConflict, res.Conflict},
		{"记录不存在", gorm.ErrRecordNotFound, http.StatusNotFound, res.NotFound},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError, res.Fail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w).Code)
		})
	}
}

func TestValidationErrorResponse(t *testing.T) {
	type req struct {
		AvatarURL string `json:"avatar_url" binding:"required"`
	}

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			ValidationErrorResponse(c, err)
			return
		}
		SuccessResponse(c, body)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", jsonBody(`{}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, res.ParseError, body.Code)
	assert.Equal(t, "字段 'avatar_url' 是必填项", body.Message)
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Title":         "title",
		"ChapterNumber": "chapter_number",
		"AvatarURL":     "avatar_url",
		"ID":            "id",
		"ParentID":      "parent_id",
	}
	for in, want := range cases {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, PageQuery{Page: 1, PageSize: 20}, NormalizePage(0, 0, 100))
	assert.Equal(t, PageQuery{Page: 3, PageSize: 50}, NormalizePage(3, 50, 100))
	assert.Equal(t, PageQuery{Page: 2, PageSize: 20}, NormalizePage(2, 500, 100))
	assert.Equal(t, 40, PageQuery{Page: 3, PageSize: 20}.Offset())
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitCSV(" a, ,b c,a "))
	assert.Nil(t, SplitCSV(""))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%abc%", LikePattern("AbC"))
	assert.Equal(t, `%50\%\_off%`, LikePattern("50%_OFF"))
}
