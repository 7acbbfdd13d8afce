package models

// SentimentRequest is the body of POST /api/youtube_sentiment.
type SentimentRequest struct {
	URL  string `json:"url" binding:"required"`
	Mode string `json:"mode"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
