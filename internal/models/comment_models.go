package models

import "time"

// Comment is a single top-level comment as returned by the comment API.
// PublishedAt is nil when the API omitted the timestamp or it could not be parsed.
type Comment struct {
	Text        string     `json:"text"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Date formats the publish date as YYYY-MM-DD, or "" when unknown.
func (c Comment) Date() string {
	if c.PublishedAt == nil {
		return ""
	}
	return c.PublishedAt.Format(time.DateOnly)
}

// ScoredComment pairs a comment with the classifications of every analyzer that ran on it.
type ScoredComment struct {
	Index           int              `json:"index"`
	Comment         Comment          `json:"comment"`
	Classifications []Classification `json:"classifications"`
}

// ClassificationBy returns the classification produced by the named analyzer.
func (s ScoredComment) ClassificationBy(analyzer string) (Classification, bool) {
	for _, c := range s.Classifications {
		if c.Analyzer == analyzer {
			return c, true
		}
	}
	return Classification{}, false
}
