package router

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/wasilibs/go-re2"

	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/logger"
)

// sciLiteral matches numbers in exponent form such as 1e3 or 2.5E-4.
var sciLiteral = re2.MustCompile(`[0-9.]+[eE][+-]?[0-9]+`)

// Evaluate parses line as an arithmetic expression. It reports false for
// anything that is not an expression with a numeric result. `^` is power.
func Evaluate(line string) (float64, bool) {
	if strings.TrimSpace(line) == "" {
		return 0, false
	}

	source, params, ok := rewrite(line)
	if !ok {
		return 0, false
	}

	expr, err := govaluate.NewEvaluableExpression(source)
	if err != nil {
		return 0, false
	}
	// Only constant expressions count; the sole identifiers allowed are the
	// literals bound by rewrite.
	for _, tok := range expr.Tokens() {
		if tok.Kind != govaluate.VARIABLE {
			continue
		}
		if name, _ := tok.Value.(string); params[name] == nil {
			return 0, false
		}
	}

	result, err := expr.Evaluate(params)
	if err != nil {
		return 0, false
	}
	value, ok := result.(float64)
	return value, ok
}

// rewrite turns `^` into `**` and binds exponent-form literals as
// parameters, since govaluate reads neither. Literals out of float range
// become infinities.
func rewrite(line string) (string, map[string]interface{}, bool) {
	if strings.ContainsAny(line, "[]") {
		return "", nil, false
	}
	line = strings.ReplaceAll(line, "^", "**")

	matches := sciLiteral.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return line, nil, true
	}

	params := make(map[string]interface{}, len(matches))
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		// Part of an identifier; leave it for the variable check to reject.
		if (start > 0 && isIdentByte(line[start-1])) || (end < len(line) && isIdentByte(line[end])) {
			continue
		}
		v, err := strconv.ParseFloat(line[start:end], 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return "", nil, false
		}
		name := "n" + strconv.Itoa(len(params))
		params[name] = v
		b.WriteString(line[last:start])
		b.WriteString("[" + name + "]")
		last = end
	}
	b.WriteString(line[last:])
	return b.String(), params, true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// FormatValue renders an evaluation result for a reply.
func FormatValue(v float64) string {
	if math.IsInf(v, 0) {
		return constants.MsgTooLarge
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *Router) evaluate(ctx context.Context, line string) (reply string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WarnCtx(ctx, "expression evaluation panicked",
				logger.Field{Key: "line", Value: line},
				logger.Field{Key: "panic", Value: fmt.Sprint(rec)})
			reply, ok = "", false
		}
	}()

	value, ok := Evaluate(line)
	if !ok {
		return "", false
	}
	return FormatValue(value), true
}
