// Package core provides filtering and sorting of toast snapshots.
package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/uikit/internal/model"
)

// ErrInvalidFilter wraps every filter parse failure.
var ErrInvalidFilter = errors.New("invalid filter")

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// operators in order of specificity (longest first).
var operators = []FilterOp{
	FilterOpNotEqual,
	FilterOpGreaterEq,
	FilterOpLessEq,
	FilterOpRegex,
	FilterOpEqual,
	FilterOpContains,
	FilterOpGreater,
	FilterOpLess,
}

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // type, message, description, age, sticky, dismissible
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	regex    *regexp.Regexp
	duration time.Duration
	boolVal  bool
}

// FilterExpr is a set of conditions that must all match.
type FilterExpr struct {
	Conditions []FilterCondition
	now        func() time.Time
}

// ParseDuration parses a duration string with a day suffix on top of
// time.ParseDuration: 90s, 5m, 2h, 1d.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

// ParseFilter parses "field=value,field2~value2" into a FilterExpr.
//
// Fields: type, message (msg), description (desc), age, sticky, dismissible.
// Operators: = != ~ (contains) ~= (regex), and > < >= <= for age.
//
// Examples:
//   - "type=error" - error toasts
//   - "message~disk" - message contains "disk", case-insensitive
//   - "age<5m" - added in the last five minutes
//   - "type!=info,sticky=false" - timed toasts that are not info
func ParseFilter(expr string) (*FilterExpr, error) {
	filter := &FilterExpr{now: time.Now}
	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}
	return filter, nil
}

func parseCondition(s string) (FilterCondition, error) {
	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx <= 0 {
			continue
		}
		cond := FilterCondition{
			Field:    strings.ToLower(strings.TrimSpace(s[:idx])),
			Operator: op,
			Value:    strings.TrimSpace(s[idx+len(op):]),
		}
		if err := cond.init(); err != nil {
			return FilterCondition{}, err
		}
		return cond, nil
	}
	return FilterCondition{}, fmt.Errorf("%w: %s (missing operator)", ErrInvalidFilter, s)
}

// init normalises the field name and pre-parses the value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "type", "kind":
		c.Field = "type"
		if c.Operator == FilterOpEqual || c.Operator == FilterOpNotEqual {
			t, err := model.ParseNotificationType(c.Value)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
			}
			c.Value = string(t)
		}
	case "message", "msg":
		c.Field = "message"
	case "description", "desc":
		c.Field = "description"
	case "age":
		d, err := ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("%w: age: %w", ErrInvalidFilter, err)
		}
		c.duration = d
	case "sticky", "dismissible":
		c.boolVal = parseBool(c.Value)
	default:
		return fmt.Errorf("%w: unknown field %s", ErrInvalidFilter, c.Field)
	}

	if !c.supports() {
		return fmt.Errorf("%w: operator %s not supported for %s", ErrInvalidFilter, c.Operator, c.Field)
	}

	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("%w: regex: %w", ErrInvalidFilter, err)
		}
		c.regex = re
	}
	return nil
}

// supports reports whether the operator makes sense for the field.
func (c *FilterCondition) supports() bool {
	switch c.Field {
	case "age":
		switch c.Operator {
		case FilterOpGreater, FilterOpLess, FilterOpGreaterEq, FilterOpLessEq:
			return true
		}
		return false
	case "sticky", "dismissible":
		return c.Operator == FilterOpEqual || c.Operator == FilterOpNotEqual
	default:
		switch c.Operator {
		case FilterOpEqual, FilterOpNotEqual, FilterOpContains, FilterOpRegex:
			return true
		}
		return false
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "y", "t":
		return true
	default:
		return false
	}
}

// Match tests if a toast matches every condition.
func (f *FilterExpr) Match(n model.Notification) bool {
	now := time.Now
	if f.now != nil {
		now = f.now
	}
	for i := range f.Conditions {
		if !f.Conditions[i].match(n, now()) {
			return false
		}
	}
	return true
}

func (c *FilterCondition) match(n model.Notification, now time.Time) bool {
	switch c.Field {
	case "type":
		return c.matchString(string(n.Type))
	case "message":
		return c.matchString(n.Message)
	case "description":
		return c.matchString(n.Description)
	case "age":
		return c.matchDuration(now.Sub(n.CreatedAtTime()))
	case "sticky":
		return c.matchBool(n.Sticky())
	case "dismissible":
		return c.matchBool(n.Dismissible)
	default:
		return false
	}
}

func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.Value
	case FilterOpNotEqual:
		return fieldValue != c.Value
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

func (c *FilterCondition) matchDuration(age time.Duration) bool {
	switch c.Operator {
	case FilterOpGreater:
		return age > c.duration
	case FilterOpLess:
		return age < c.duration
	case FilterOpGreaterEq:
		return age >= c.duration
	case FilterOpLessEq:
		return age <= c.duration
	default:
		return false
	}
}

func (c *FilterCondition) matchBool(fieldValue bool) bool {
	if c.Operator == FilterOpNotEqual {
		return fieldValue != c.boolVal
	}
	return fieldValue == c.boolVal
}

// FilterWithExpr returns the toasts matching expr, preserving order.
func FilterWithExpr(notifications []model.Notification, expr *FilterExpr) []model.Notification {
	if expr == nil || len(expr.Conditions) == 0 {
		return notifications
	}

	result := make([]model.Notification, 0, len(notifications))
	for _, n := range notifications {
		if expr.Match(n) {
			result = append(result, n)
		}
	}
	return result
}
