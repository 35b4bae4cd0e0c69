package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query        string
		page, perPag int
	}{
		{"", 1, 10},
		{"?page=3&per_page=20", 3, 20},
		{"?page=-1&per_page=500", 1, 10},
		{"?page=abc", 1, 10},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/"+tc.query, nil)

		page, perPage := GetPaginationParams(c)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.perPag, perPage, tc.query)
	}
}

func TestValidLanguageList(t *testing.T) {
	assert.True(t, ValidLanguageList("de"))
	assert.True(t, ValidLanguageList("EN, fr ,PT-BR"))
	assert.False(t, ValidLanguageList(""))
	assert.False(t, ValidLanguageList(" , "))
	assert.False(t, ValidLanguageList("english"))
	assert.False(t, ValidLanguageList("en;fr"))
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())
}
