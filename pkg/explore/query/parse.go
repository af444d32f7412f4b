package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bascanada/logexplorer/pkg/explore/filter"
)

// ErrInvalidFilterExpression is returned for expressions that are not
// key=value or key!=value.
var ErrInvalidFilterExpression = errors.New("invalid filter expression")

// operatorSymbols is the detection order, longer operators first.
var operatorSymbols = []string{filter.OpNotEqual, filter.OpEqual}

// ParseFilterExpr parses "key=value" or "key!=value". Surrounding quotes or
// backticks around the value are removed.
func ParseFilterExpr(expr string) (filter.Triple, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return filter.Triple{}, fmt.Errorf("%w: empty", ErrInvalidFilterExpression)
	}

	for _, symbol := range operatorSymbols {
		idx := strings.Index(expr, symbol)
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(expr[:idx])
		value := unquote(strings.TrimSpace(expr[idx+len(symbol):]))
		if key == "" {
			return filter.Triple{}, fmt.Errorf("%w: missing key in %q", ErrInvalidFilterExpression, expr)
		}
		if value == "" {
			return filter.Triple{}, fmt.Errorf("%w: missing value in %q", ErrInvalidFilterExpression, expr)
		}
		return filter.Triple{Key: key, Operator: symbol, Value: value}, nil
	}

	return filter.Triple{}, fmt.Errorf("%w: no operator in %q", ErrInvalidFilterExpression, expr)
}

// ParseFilterExprs parses every expression, stopping at the first error.
func ParseFilterExprs(exprs []string) ([]filter.Triple, error) {
	out := make([]filter.Triple, 0, len(exprs))
	for _, e := range exprs {
		t, err := ParseFilterExpr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
