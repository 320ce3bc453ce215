package search

import (
	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"contracts-app/internal/tenancy"
)

// Service tries Meilisearch first and falls back to SQL. A nil *Service is
// valid and indexes nothing.
type Service struct {
	meili *Meili
	sql   *SQL
}

// NewService wires the backends. meili may be nil when MEILI_URL is unset.
func NewService(meili *Meili, db *gorm.DB) *Service {
	return &Service{meili: meili, sql: NewSQL(db)}
}

func ScopeKey(s tenancy.Scope) string {
	p := s.KeyPrefix()
	return p[:len(p)-1]
}

func (s *Service) Search(scope tenancy.Scope, q Query) (Response, error) {
	if q.Limit <= 0 || q.Limit > 50 {
		q.Limit = 20
	}
	q.Scope = ScopeKey(scope)

	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: results, Total: total, Query: q.Text, Engine: "meilisearch"}, nil
		}
		log.Warn("search: meilisearch error, falling back to sql", "err", err)
	}

	results, total, err := s.sql.Search(scope, q)
	if err != nil {
		return Response{}, err
	}
	return Response{Results: results, Total: total, Query: q.Text, Engine: "sql"}, nil
}

func (s *Service) Index(rec Record) {
	if s == nil || s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexRecords([]Record{rec}); err != nil {
			log.Warn("search: index record", "id", rec.ID, "type", rec.Type, "err", err)
		}
	}()
}

func (s *Service) Remove(ids ...string) {
	if s == nil || s.meili == nil || !s.meili.Healthy() || len(ids) == 0 {
		return
	}
	go func() {
		if err := s.meili.DeleteRecords(ids); err != nil {
			log.Warn("search: delete records", "count", len(ids), "err", err)
		}
	}()
}

func (s *Service) Close() {
	if s != nil && s.meili != nil {
		s.meili.Close()
	}
}
