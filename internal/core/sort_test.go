package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort(t *testing.T) {
	tests := []struct {
		name     string
		opts     SortOptions
		expected []string
	}{
		{"created asc", DefaultSortOptions(), []string{"1", "3", "2", "4"}},
		{"created desc", SortOptions{Field: SortByCreated, Order: SortDesc}, []string{"4", "2", "3", "1"}},
		{"type asc", SortOptions{Field: SortByType, Order: SortAsc}, []string{"1", "3", "4", "2"}},
		{"type desc", SortOptions{Field: SortByType, Order: SortDesc}, []string{"2", "4", "3", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toasts := sampleToasts()
			Sort(toasts, tt.opts)
			assert.Equal(t, tt.expected, ids(toasts))
		})
	}
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField("")
	require.NoError(t, err)
	assert.Equal(t, SortByCreated, f)

	f, err = ParseSortField("Severity")
	require.NoError(t, err)
	assert.Equal(t, SortByType, f)

	_, err = ParseSortField("app")
	assert.Error(t, err)
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, o)

	o, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, o)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)
}
