package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uikit/internal/model"
)

var filterNow = time.UnixMilli(1_700_000_000_000)

func sampleToasts() []model.Notification {
	at := func(ago time.Duration) int64 { return filterNow.Add(-ago).UnixMilli() }
	return []model.Notification{
		{ID: "1", Type: model.TypeError, Message: "Disk full", Description: "/home at 99%", Duration: 0, Dismissible: true, CreatedAt: at(2 * time.Hour)},
		{ID: "2", Type: model.TypeInfo, Message: "Build started", Duration: 4000, Dismissible: true, CreatedAt: at(90 * time.Second)},
		{ID: "3", Type: model.TypeWarning, Message: "Battery low", Duration: 4000, Dismissible: false, CreatedAt: at(10 * time.Minute)},
		{ID: "4", Type: model.TypeSuccess, Message: "Build finished", Duration: 0, Dismissible: true, CreatedAt: at(5 * time.Second)},
	}
}

func parseAt(t *testing.T, expr string) *FilterExpr {
	t.Helper()
	f, err := ParseFilter(expr)
	require.NoError(t, err)
	f.now = func() time.Time { return filterNow }
	return f
}

func ids(ns []model.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		field string
		op    FilterOp
		value string
	}{
		{"type equal", "type=error", "type", FilterOpEqual, "error"},
		{"type normalised", "kind = WARNING", "type", FilterOpEqual, "warning"},
		{"message contains", "msg~disk", "message", FilterOpContains, "disk"},
		{"description regex", "desc~=^/home", "description", FilterOpRegex, "^/home"},
		{"not equal wins over equal", "type!=info", "type", FilterOpNotEqual, "info"},
		{"age less or equal", "age<=5m", "age", FilterOpLessEq, "5m"},
		{"sticky", "sticky=yes", "sticky", FilterOpEqual, "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.expr)
			require.NoError(t, err)
			require.Len(t, f.Conditions, 1)
			c := f.Conditions[0]
			assert.Equal(t, tt.field, c.Field)
			assert.Equal(t, tt.op, c.Operator)
			assert.Equal(t, tt.value, c.Value)
		})
	}
}

func TestParseFilter_Errors(t *testing.T) {
	for _, expr := range []string{
		"type",
		"app=firefox",
		"type=party",
		"age=5m",
		"age<soon",
		"message>3",
		"sticky~true",
		"message~=[",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseFilter(expr)
			assert.ErrorIs(t, err, ErrInvalidFilter)
		})
	}
}

func TestParseFilter_EmptyParts(t *testing.T) {
	f, err := ParseFilter(" , type=error ,")
	require.NoError(t, err)
	assert.Len(t, f.Conditions, 1)

	f, err = ParseFilter("")
	require.NoError(t, err)
	assert.Empty(t, f.Conditions)
}

func TestFilterWithExpr(t *testing.T) {
	tests := []struct {
		expr     string
		expected []string
	}{
		{"type=error", []string{"1"}},
		{"type!=info", []string{"1", "3", "4"}},
		{"message~build", []string{"2", "4"}},
		{"message~=^Build (started|finished)$", []string{"2", "4"}},
		{"description~99%", []string{"1"}},
		{"age<5m", []string{"2", "4"}},
		{"age>=1h", []string{"1"}},
		{"age>1d", []string{}},
		{"sticky=true", []string{"1", "4"}},
		{"sticky!=true", []string{"2", "3"}},
		{"dismissible=false", []string{"3"}},
		{"message~build,sticky=false", []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			result := FilterWithExpr(sampleToasts(), parseAt(t, tt.expr))
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestFilterWithExpr_NoConditions(t *testing.T) {
	toasts := sampleToasts()
	assert.Len(t, FilterWithExpr(toasts, nil), len(toasts))
	assert.Len(t, FilterWithExpr(toasts, parseAt(t, "")), len(toasts))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"30s", 30 * time.Second, false},
		{"5m", 5 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"2d", 48 * time.Hour, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}
