// Package render classifies extraction records and renders them in the
// response formats the HTTP layer serves.
package render

import (
	"strings"
	"unicode/utf8"

	"github.com/use-agent/foxread/models"
)

// BlockedMarker appears on the placeholder page some sites serve to
// automated browsers.
//
// NOTE: substring matching is coarse. A legitimate page that mentions the
// marker is reported as a failure.
const BlockedMarker = "荒原"

// Quality is a coarse bucket of extracted content length.
type Quality string

const (
	QualityBasic     Quality = "basic"
	QualityGood      Quality = "good"
	QualityExcellent Quality = "excellent"
)

// Classification is derived from a record on every render; it is never stored.
type Classification struct {
	Success       bool
	Quality       Quality
	ContentLength int
}

// Classify is a pure function of rec.Content. Length is counted in
// Unicode code points so CJK pages are not over-rated.
func Classify(rec *models.ExtractionRecord) Classification {
	content := rec.Content
	n := utf8.RuneCountInString(content)
	return Classification{
		Success:       !strings.HasPrefix(content, models.FailureSentinel) && !strings.Contains(content, BlockedMarker),
		Quality:       QualityFor(n),
		ContentLength: n,
	}
}

// QualityFor maps a content length to its tier: >1000 excellent,
// >200 good, otherwise basic.
func QualityFor(length int) Quality {
	switch {
	case length > 1000:
		return QualityExcellent
	case length > 200:
		return QualityGood
	default:
		return QualityBasic
	}
}
