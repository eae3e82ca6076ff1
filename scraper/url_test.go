package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/foxread/models"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"zhuanlan.zhihu.com/p/579628061", "https://zhuanlan.zhihu.com/p/579628061"},
		{"//host/path", "https://host/path"},
		{"http://example.com/a?b=c", "http://example.com/a?b=c"},
		{"https://example.com", "https://example.com"},
		{"HTTPS://Example.com", "HTTPS://Example.com"},
		{"  example.com/x  ", "https://example.com/x"},
		{"example.com/login?next=https://example.com/home", "https://example.com/login?next=https://example.com/home"},
		{"zhuanlan.zhihu.com/p/1?ref=http://a.b", "https://zhuanlan.zhihu.com/p/1?ref=http://a.b"},
		{"example.com#x://y", "https://example.com#x://y"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURL_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "ftp://example.com", "chrome-extension://abc/x", "svn+ssh://host/repo", "https://", "//", "http://:8080/x"} {
		t.Run(in, func(t *testing.T) {
			_, err := NormalizeURL(in)
			assert.Equal(t, models.ErrCodeInvalidURL, models.CodeOf(err))
		})
	}
}

func TestHasScheme(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://a", true},
		{"svn+ssh://a", true},
		{"x.y-z://a", true},
		{"a.com/p?u=http://b", false},
		{"a.com?u=http://b", false},
		{"1abc://a", false},
		{"://a", false},
		{"a b://c", false},
		{"example.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hasScheme(tt.in), tt.in)
	}
}
