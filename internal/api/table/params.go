package table

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"contracts-app/internal/apperr"
	"contracts-app/internal/importer"

	"gorm.io/gorm"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type SortField struct {
	Column string
	Desc   bool
}

type Filter struct {
	Column Column
	Values []string // Text, Enum
	From   *float64 // Number
	To     *float64
	After  *time.Time // Date, inclusive
	Before *time.Time // Date, exclusive
	Bool   *bool
}

type Params struct {
	Page    int
	PerPage int
	Sort    []SortField
	Query   string
	Filters []Filter
}

// ParseParams reads page, per_page, sort, q and filter[col] from the query.
func ParseParams(q url.Values, cols Columns) (Params, error) {
	p := Params{Page: 1, PerPage: DefaultPerPage, Query: strings.TrimSpace(q.Get("q"))}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, apperr.BadRequest("invalid_page", "page must be a positive integer")
		}
		p.Page = n
	}
	if v := q.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, apperr.BadRequest("invalid_page", "per_page must be a positive integer")
		}
		p.PerPage = min(n, MaxPerPage)
	}

	sort, err := parseSort(q.Get("sort"), cols)
	if err != nil {
		return p, err
	}
	p.Sort = sort

	for key, vals := range q {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		name := key[len("filter[") : len(key)-1]
		col, ok := cols.Lookup(name)
		if !ok {
			return p, apperr.BadRequest("invalid_filter", fmt.Sprintf("cannot filter by %q", name))
		}
		raw := strings.TrimSpace(strings.Join(vals, ","))
		if raw == "" {
			continue
		}
		f, err := parseFilter(col, raw)
		if err != nil {
			return p, apperr.BadRequest("invalid_filter", err.Error())
		}
		p.Filters = append(p.Filters, f)
	}
	// map order is random; keep SQL stable
	slices.SortFunc(p.Filters, func(a, b Filter) int { return strings.Compare(a.Column.Name, b.Column.Name) })

	return p, nil
}

func parseSort(raw string, cols Columns) ([]SortField, error) {
	if strings.TrimSpace(raw) == "" {
		return []SortField{{Column: "created_at", Desc: true}}, nil
	}
	var out []SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, dir, _ := strings.Cut(part, ".")
		if _, ok := cols.Lookup(name); !ok {
			return nil, apperr.BadRequest("invalid_sort", fmt.Sprintf("cannot sort by %q", name))
		}
		switch strings.ToLower(dir) {
		case "", "asc":
			out = append(out, SortField{Column: name})
		case "desc":
			out = append(out, SortField{Column: name, Desc: true})
		default:
			return nil, apperr.BadRequest("invalid_sort", fmt.Sprintf("unknown direction %q", dir))
		}
	}
	return out, nil
}

func splitValues(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseFilter(col Column, raw string) (Filter, error) {
	f := Filter{Column: col}
	switch col.Kind {
	case Text:
		f.Values = splitValues(raw)

	case Enum:
		f.Values = splitValues(raw)
		for _, v := range f.Values {
			if len(col.Options) > 0 && !slices.Contains(col.Options, v) {
				return f, fmt.Errorf("%q is not a valid %s", v, col.Name)
			}
		}

	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("%s must be true or false", col.Name)
		}
		f.Bool = &b

	case Number:
		from, to, isRange := strings.Cut(raw, "..")
		if !isRange {
			to = from
		}
		var err error
		if f.From, err = importer.ParseNumber(from); err != nil {
			return f, err
		}
		if f.To, err = importer.ParseNumber(to); err != nil {
			return f, err
		}

	case Date:
		from, to, isRange := strings.Cut(raw, "..")
		if !isRange {
			to = from
		}
		after, err := importer.ParseDate(from)
		if err != nil {
			return f, err
		}
		before, err := importer.ParseDate(to)
		if err != nil {
			return f, err
		}
		f.After = after
		if before != nil {
			end := before.AddDate(0, 0, 1)
			f.Before = &end
		}
	}
	return f, nil
}

// Filter applies filters and the q search to db.
func (p Params) Filter(db *gorm.DB, cols Columns) *gorm.DB {
	for _, f := range p.Filters {
		name := f.Column.Name
		switch {
		case f.Bool != nil:
			db = db.Where(name+" = ?", *f.Bool)
		case len(f.Values) > 0:
			db = db.Where(name+" IN ?", f.Values)
		}
		if f.From != nil {
			db = db.Where(name+" >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where(name+" <= ?", *f.To)
		}
		if f.After != nil {
			db = db.Where(name+" >= ?", *f.After)
		}
		if f.Before != nil {
			db = db.Where(name+" < ?", *f.Before)
		}
	}

	if p.Query != "" {
		fields := cols.searchable()
		if len(fields) > 0 {
			pattern := "%" + strings.ToLower(p.Query) + "%"
			clauses := make([]string, len(fields))
			args := make([]any, len(fields))
			for i, f := range fields {
				clauses[i] = "LOWER(" + f + ") LIKE ?"
				args[i] = pattern
			}
			db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}
	return db
}

// Order applies the sort with id as a final tiebreak so pages are stable.
func (p Params) Order(db *gorm.DB, table string) *gorm.DB {
	prefix := ""
	if table != "" {
		prefix = table + "."
	}
	for _, s := range p.Sort {
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		db = db.Order(prefix + s.Column + dir)
	}
	return db.Order(prefix + "id ASC")
}

type Page[T any] struct {
	Data      []T   `json:"data"`
	Page      int   `json:"page"`
	PerPage   int   `json:"per_page"`
	Total     int64 `json:"total"`
	PageCount int   `json:"page_count"`
}

// Paginate counts the filtered query, then loads one page of it. preload,
// when set, attaches associations to the page query only.
func Paginate[T any](db *gorm.DB, p Params, table string, preload func(*gorm.DB) *gorm.DB) (Page[T], error) {
	out := Page[T]{Data: []T{}, Page: p.Page, PerPage: p.PerPage}

	if err := db.Session(&gorm.Session{}).Count(&out.Total).Error; err != nil {
		return out, err
	}
	out.PageCount = int(math.Ceil(float64(out.Total) / float64(p.PerPage)))

	if preload != nil {
		db = preload(db)
	}
	err := p.Order(db, table).
		Offset((p.Page - 1) * p.PerPage).
		Limit(p.PerPage).
		Find(&out.Data).Error
	return out, err
}
