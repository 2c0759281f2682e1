package repository

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListOptions carries the raw list parameters of a request. Unknown filter
// keys and ordering fields are ignored.
type ListOptions struct {
	Filters  map[string]string
	Search   string
	Ordering string
	Page     int
	PageSize int
}

// Paginate turns page/size into offset/limit. A page below 1 means no paging.
func Paginate(page, size int) (offset, limit int) {
	if page < 1 {
		return 0, -1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

type listSpec struct {
	table        string
	joins        []string
	filters      map[string]string // query param -> column
	flags        map[string]string // boolean query param -> column
	search       []string
	ordering     map[string]string // api field -> column
	defaultOrder string
	preloads     []string
}

func list[T any](ctx context.Context, db *gorm.DB, spec listSpec, opts ListOptions, scope Scope) ([]T, int64, error) {
	base := func() *gorm.DB {
		q := db.WithContext(ctx).Model(new(T))
		for _, j := range spec.joins {
			q = q.Joins(j)
		}
		if scope != nil {
			q = q.Scopes(scope)
		}
		for param, column := range spec.filters {
			if v, ok := opts.Filters[param]; ok && v != "" {
				q = q.Where(column+" = ?", v)
			}
		}
		for param, column := range spec.flags {
			if b, err := strconv.ParseBool(opts.Filters[param]); err == nil {
				q = q.Where(column+" = ?", b)
			}
		}
		return applySearch(q, opts.Search, spec.search)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := Paginate(opts.Page, opts.PageSize)
	q := base().
		Select(spec.table + ".*").
		Order(orderClause(opts.Ordering, spec.ordering, spec.defaultOrder) + ", " + spec.table + ".id ASC").
		Offset(offset).
		Limit(limit)
	for _, p := range spec.preloads {
		q = q.Preload(p)
	}

	out := make([]T, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// applySearch requires every whitespace separated term to appear, case
// insensitively, in at least one of the columns.
func applySearch(q *gorm.DB, raw string, columns []string) *gorm.DB {
	if len(columns) == 0 {
		return q
	}
	for _, term := range strings.Fields(raw) {
		like := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, c := range columns {
			conds[i] = "LOWER(" + c + ") LIKE ?"
			args[i] = like
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return q
}

func orderClause(raw string, allowed map[string]string, fallback string) string {
	var parts []string
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		column, ok := allowed[strings.TrimPrefix(field, "-")]
		if !ok {
			continue
		}
		if desc {
			parts = append(parts, column+" DESC")
		} else {
			parts = append(parts, column+" ASC")
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}
