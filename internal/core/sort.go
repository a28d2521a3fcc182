package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jmylchreest/uikit/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByCreated SortField = "created"
	SortByType    SortField = "type"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions keeps the manager's insertion order (oldest first).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByCreated,
		Order: SortAsc,
	}
}

// typeRank orders types by severity, most severe first.
var typeRank = map[model.NotificationType]int{
	model.TypeError:   0,
	model.TypeWarning: 1,
	model.TypeSuccess: 2,
	model.TypeInfo:    3,
}

// Sort sorts toasts in place. Ties keep their existing order.
func Sort(notifications []model.Notification, opts SortOptions) {
	slices.SortStableFunc(notifications, func(a, b model.Notification) int {
		var c int
		switch opts.Field {
		case SortByType:
			c = typeRank[a.Type] - typeRank[b.Type]
		default:
			c = int(a.CreatedAt - b.CreatedAt)
		}
		if opts.Order == SortDesc {
			return -c
		}
		return c
	})
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created", "time", "age", "":
		return SortByCreated, nil
	case "type", "severity":
		return SortByType, nil
	default:
		return "", fmt.Errorf("invalid sort field %q (use created or type)", s)
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order %q (use asc or desc)", s)
	}
}
