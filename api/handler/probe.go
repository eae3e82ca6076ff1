package handler

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/use-agent/foxread/models"
	"github.com/use-agent/foxread/render"
)

// ProbeTarget is one URL exercised by GET /test.
type ProbeTarget struct {
	URL         string
	Description string
}

// DefaultProbeTargets are anti-bot heavy Zhihu column articles.
var DefaultProbeTargets = []ProbeTarget{
	{URL: "https://zhuanlan.zhihu.com/p/579628061", Description: "zhihu column, law"},
	{URL: "https://zhuanlan.zhihu.com/p/400000000", Description: "zhihu column, tech"},
}

const previewRunes = 200

// Probe returns a handler for GET /test. Each target runs in its own
// worker, concurrently, with the server's default timeout.
func Probe(ex Extractor, targets []ProbeTarget) gin.HandlerFunc {
	return func(c *gin.Context) {
		results := make([]models.ProbeResult, len(targets))

		var g errgroup.Group
		for i, tgt := range targets {
			g.Go(func() error {
				results[i] = probeOne(c, ex, tgt)
				return nil
			})
		}
		_ = g.Wait()

		c.JSON(http.StatusOK, models.ProbeResponse{
			Results: results,
			Summary: summarize(results),
		})
	}
}

func probeOne(c *gin.Context, ex Extractor, tgt ProbeTarget) models.ProbeResult {
	res := models.ProbeResult{URL: tgt.URL, Description: tgt.Description}

	rec, err := ex.Extract(c.Request.Context(), tgt.URL, 0)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	cls := render.Classify(rec)
	res.Title = rec.Title
	res.Success = cls.Success
	res.ContentLength = cls.ContentLength
	res.Quality = string(cls.Quality)
	res.Preview = preview(rec.Content)
	return res
}

func summarize(results []models.ProbeResult) models.ProbeSummary {
	s := models.ProbeSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			s.Successful++
		}
	}

	var rate float64
	if s.Total > 0 {
		rate = float64(s.Successful) / float64(s.Total) * 100
	}
	s.SuccessRate = fmt.Sprintf("%.1f%%", rate)

	switch {
	case s.Total > 0 && s.Successful == s.Total:
		s.Performance = "master"
	case rate >= 80:
		s.Performance = "skilled"
	default:
		s.Performance = "learning"
	}
	return s
}

// preview returns the first previewRunes characters of content.
func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewRunes {
		return content
	}
	r := []rune(content)
	return string(r[:previewRunes]) + "..."
}
