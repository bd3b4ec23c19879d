package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Params
		wantOffset  int
	}{
		{name: "defaults", want: Params{Page: 1, Limit: 20}},
		{name: "explicit", page: 3, limit: 10, want: Params{Page: 3, Limit: 10}, wantOffset: 20},
		{name: "limit capped", page: 1, limit: 1000, want: Params{Page: 1, Limit: MaxLimit}},
		{name: "negative page", page: -2, limit: 5, want: Params{Page: 1, Limit: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.page, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=2&limit=abc", nil)

	assert.Equal(t, Params{Page: 2, Limit: DefaultLimit}, Parse(c))
}
