package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/google/uuid"
)

var reservedKeys = map[string]struct{}{
	"limit":    {},
	"skip":     {},
	"page":     {},
	"sort":     {},
	"fields":   {},
	"keywords": {},
}

// Parse walks a list request's query string into a typed Spec.
// Every invalid key is reported in the error details.
func Parse(values url.Values, schema Schema) (Spec, error) {
	spec := Spec{
		Page:           pagination.Normalize(positiveInt(values.Get("page")), positiveInt(values.Get("limit"))),
		Keywords:       strings.TrimSpace(values.Get("keywords")),
		KeywordColumns: schema.Keywords,
	}
	problems := map[string]string{}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		name, op, err := splitKey(key)
		if err != nil {
			problems[key] = err.Error()
			continue
		}
		field, ok := schema.lookup(name)
		if !ok {
			problems[key] = "unknown filter field"
			continue
		}
		for _, raw := range values[key] {
			value, err := parseValue(field.Kind, op, raw)
			if err != nil {
				problems[key] = err.Error()
				break
			}
			spec.Filters = append(spec.Filters, Filter{Field: name, Column: field.Column, Op: op, Value: value})
		}
	}

	if raw := strings.TrimSpace(values.Get("sort")); raw != "" {
		terms, err := parseSort(raw, schema)
		if err != nil {
			problems["sort"] = err.Error()
		}
		spec.Sort = terms
	}

	if raw := strings.TrimSpace(values.Get("fields")); raw != "" {
		projection, err := parseProjection(raw)
		if err != nil {
			problems["fields"] = err.Error()
		}
		spec.Projection = projection
	}

	if len(problems) > 0 {
		return Spec{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameters").WithDetails(problems)
	}
	return spec, nil
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// splitKey turns "price[gte]" into ("price", OpGte) and "price" into ("price", OpEq).
func splitKey(key string) (string, Op, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, nil
	}
	if open == 0 || !strings.HasSuffix(key, "]") {
		return "", "", fmt.Errorf("malformed filter key")
	}
	opName := key[open+1 : len(key)-1]
	op, ok := bracketOps[opName]
	if !ok {
		return "", "", fmt.Errorf("unsupported operator %q", opName)
	}
	return key[:open], op, nil
}

func parseValue(kind Kind, op Op, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if op == OpRegex {
		if kind != KindString {
			return nil, fmt.Errorf("regex is only supported on text fields")
		}
		return raw, nil
	}

	switch kind {
	case KindString:
		return raw, nil
	case KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number")
		}
		return n, nil
	case KindBool:
		if op != OpEq {
			return nil, fmt.Errorf("only equality is supported on boolean fields")
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected true or false")
		}
		return b, nil
	case KindTime:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("expected an RFC3339 timestamp or YYYY-MM-DD date")
		}
		return t, nil
	case KindUUID:
		if op != OpEq {
			return nil, fmt.Errorf("only equality is supported on id fields")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("expected a uuid")
		}
		return id, nil
	default:
		return nil, fmt.Errorf("unsupported field kind")
	}
}

func parseSort(raw string, schema Schema) ([]SortTerm, error) {
	var terms []SortTerm
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimLeft(part, "-+")
		field, ok := schema.lookup(name)
		if !ok || field.NoSort {
			return nil, fmt.Errorf("cannot sort by %q", name)
		}
		terms = append(terms, SortTerm{Column: field.Column, Desc: desc})
	}
	return terms, nil
}

func parseProjection(raw string) (Projection, error) {
	var p Projection
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			p.Exclude = append(p.Exclude, strings.TrimPrefix(part, "-"))
			continue
		}
		p.Include = append(p.Include, strings.TrimPrefix(part, "+"))
	}
	if len(p.Include) > 0 && len(p.Exclude) > 0 {
		return Projection{}, fmt.Errorf("cannot mix included and excluded fields")
	}
	return p, nil
}
