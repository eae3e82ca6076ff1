package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/foxread/models"
)

func rec(content string) *models.ExtractionRecord {
	return &models.ExtractionRecord{Title: "T", URL: "https://example.com", Content: content, ContentType: "text/html"}
}

func TestClassify_Success(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"sentinel", models.FailureSentinel, false},
		{"sentinel prefix", models.FailureSentinel + ": net::ERR_NAME_NOT_RESOLVED", false},
		{"blocked marker", "欢迎来到知识荒原，请登录", false},
		{"ordinary content", "Go is an open source programming language.", true},
		{"sentinel not at start", "页面提示：访问失败后请重试", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(rec(tt.content)).Success)
		})
	}
}

func TestClassify_QualityBoundaries(t *testing.T) {
	tests := []struct {
		length int
		want   Quality
	}{
		{1001, QualityExcellent},
		{1000, QualityGood},
		{201, QualityGood},
		{200, QualityBasic},
		{0, QualityBasic},
	}
	for _, tt := range tests {
		c := Classify(rec(strings.Repeat("a", tt.length)))
		assert.Equal(t, tt.want, c.Quality, "length %d", tt.length)
		assert.Equal(t, tt.length, c.ContentLength)
	}
}

func TestClassify_CountsCodePoints(t *testing.T) {
	// 201 CJK characters is 603 bytes but still only "good".
	c := Classify(rec(strings.Repeat("知", 201)))
	assert.Equal(t, 201, c.ContentLength)
	assert.Equal(t, QualityGood, c.Quality)
}

func TestJSON(t *testing.T) {
	out := JSON(rec(strings.Repeat("x", 300)))
	assert.True(t, out.Success)
	assert.Equal(t, "good", out.Quality)
	assert.Equal(t, 300, out.ContentLength)
	assert.Equal(t, "T", out.Title)

	failed := JSON(&models.ExtractionRecord{URL: "https://example.com", Content: models.FailureSentinel})
	assert.False(t, failed.Success)
	assert.Equal(t, "basic", failed.Quality)
}

func TestJSON_EmptyFieldsArePresent(t *testing.T) {
	b, err := json.Marshal(JSON(&models.ExtractionRecord{URL: "https://example.com", ContentType: models.ContentTypeHTML}))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "", m["title"])
	assert.Equal(t, "", m["content"])
	assert.Equal(t, "text/html", m["content_type"])
	assert.Equal(t, "basic", m["quality"])
	assert.NotContains(t, m, "error")
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t, "# T\n\nbody\n\n---\n"+Attribution, Markdown(rec("body")))

	r := rec("plain")
	r.Markdown = "**rich**"
	assert.Equal(t, "# T\n\n**rich**\n\n---\n"+Attribution, Markdown(r))
}

func TestText(t *testing.T) {
	assert.Equal(t, "only this", Text(rec("only this")))
}
