package search

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	meili "github.com/meilisearch/meilisearch-go"
)

const idxRecords = "records"

// Meili is the Meilisearch backend. The healthy flag is refreshed by a
// background loop so request paths never block on a dead server.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

func NewMeili(url, apiKey string) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		done:   make(chan struct{}),
	}

	if _, err := m.client.Health(); err != nil {
		log.Warn("search: meilisearch unavailable", "url", url, "err", err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{Uid: idxRecords, PrimaryKey: "id"}); err != nil {
		log.Debug("search: create index (may already exist)", "index", idxRecords, "err", err)
	}

	index := m.client.Index(idxRecords)
	filterable := []interface{}{"scope", "type"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		log.Warn("search: update filterable attributes", "err", err)
	}
	searchable := []string{"title", "subtitle"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Warn("search: update searchable attributes", "err", err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Info("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

func (m *Meili) Close() { close(m.done) }

func (m *Meili) Healthy() bool { return m.healthy.Load() }

func (m *Meili) Search(q Query) ([]Result, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	filters := []string{fmt.Sprintf("scope = %q", q.Scope)}
	if q.Type != "" {
		filters = append(filters, fmt.Sprintf("type = %q", string(q.Type)))
	}

	resp, err := m.client.Index(idxRecords).Search(q.Text, &meili.SearchRequest{
		Limit:  int64(q.Limit),
		Filter: strings.Join(filters, " AND "),
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	results := make([]Result, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		results = append(results, Result{
			ID:       decodeString(hit, "id"),
			Type:     ResultType(decodeString(hit, "type")),
			Title:    decodeString(hit, "title"),
			Subtitle: decodeString(hit, "subtitle"),
		})
	}
	return results, int(resp.EstimatedTotalHits), nil
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func (m *Meili) IndexRecords(recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	_, err := m.client.Index(idxRecords).AddDocuments(recs, nil)
	return err
}

func (m *Meili) DeleteRecords(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	index := m.client.Index(idxRecords)
	for _, id := range ids {
		if _, err := index.DeleteDocument(id, nil); err != nil {
			return err
		}
	}
	return nil
}
