package retrieval

// Passage is a retrieval result payload. It has no independent lifecycle:
// passages are always produced fresh from the vector index or the
// retrieval cache.
type Passage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link,omitempty"`
}
