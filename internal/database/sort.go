package database

import (
	"errors"
	"strings"
)

var ErrInvalidSortField = errors.New("unknown sort field")

// SortField is one caller-supplied ordering criterion, already mapped to a
// real column name by ParseSortQuery.
type SortField struct {
	Column string
	Desc   bool
}

// sortableColumns is the allow-list of fields callers may order by. Anything
// else is rejected so query strings can never inject arbitrary SQL.
var sortableColumns = map[string]string{
	"name":      "name",
	"size":      "size_bytes",
	"createdAt": "created_at",
	"type":      "entity_type",
}

// ParseSortQuery turns a "?sort=" value like "-size,name" into sort fields.
// A leading '-' means descending. An empty query yields no fields; listings
// still get the fixed folders-before-files ordering.
func ParseSortQuery(query string) ([]SortField, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	var fields []SortField
	for _, item := range strings.Split(query, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		desc := strings.HasPrefix(item, "-")
		name := strings.TrimPrefix(item, "-")

		column, ok := sortableColumns[name]
		if !ok {
			return nil, ErrInvalidSortField
		}
		fields = append(fields, SortField{Column: column, Desc: desc})
	}

	return fields, nil
}

// orderByClause builds the ORDER BY for entity listings. entity_type DESC is
// always the primary key ('folder' > 'file'), so folders sort first; the
// caller's fields follow. Column names come exclusively from the allow-list.
func orderByClause(sort []SortField) string {
	var b strings.Builder
	b.WriteString("ORDER BY entity_type DESC")
	for _, f := range sort {
		b.WriteString(", ")
		b.WriteString(f.Column)
		if f.Desc {
			b.WriteString(" DESC")
		}
	}
	return b.String()
}
