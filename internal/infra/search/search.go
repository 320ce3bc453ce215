// Package search indexes records in Meilisearch and answers the global
// search box, falling back to SQL LIKE when Meilisearch is unavailable.
package search

type ResultType string

const (
	TypeContract ResultType = "contract"
	TypeRelease  ResultType = "release"
	TypeArtist   ResultType = "artist"
	TypeDocument ResultType = "document"
	TypeEvent    ResultType = "event"
	TypeTask     ResultType = "task"
	TypeWriter   ResultType = "writer"
)

// Record is the document pushed to the index. Scope is the tenant key
// ("team-4" or "user-9") used to filter hits.
type Record struct {
	ID       string     `json:"id"`
	Type     ResultType `json:"type"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Scope    string     `json:"scope"`
}

type Result struct {
	Type     ResultType `json:"type"`
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
}

type Query struct {
	Text  string
	Type  ResultType // empty = all types
	Scope string
	Limit int
}

type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
	Engine  string   `json:"engine"`
}

// Indexer is what record handlers use to keep the index current.
type Indexer interface {
	Index(rec Record)
	Remove(ids ...string)
}
