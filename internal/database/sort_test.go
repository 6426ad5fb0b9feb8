package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSortQuery(t *testing.T) {
	fields, err := ParseSortQuery("")
	require.NoError(t, err)
	require.Nil(t, fields)

	fields, err = ParseSortQuery("-size,name")
	require.NoError(t, err)
	require.Equal(t, []SortField{
		{Column: "size_bytes", Desc: true},
		{Column: "name", Desc: false},
	}, fields)

	fields, err = ParseSortQuery("createdAt,-type")
	require.NoError(t, err)
	require.Equal(t, []SortField{
		{Column: "created_at", Desc: false},
		{Column: "entity_type", Desc: true},
	}, fields)

	_, err = ParseSortQuery("name;DROP TABLE entities")
	require.ErrorIs(t, err, ErrInvalidSortField)

	_, err = ParseSortQuery("owner_id")
	require.ErrorIs(t, err, ErrInvalidSortField)
}

func TestOrderByClause(t *testing.T) {
	require.Equal(t, "ORDER BY entity_type DESC", orderByClause(nil))

	clause := orderByClause([]SortField{
		{Column: "size_bytes", Desc: true},
		{Column: "name"},
	})
	require.Equal(t, "ORDER BY entity_type DESC, size_bytes DESC, name", clause)
}
