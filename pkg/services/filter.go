/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/masteryyh/storefront/pkg/customerrors"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var whereOps = map[string]func(col clause.Column, value any) clause.Expression{
	"eq":   func(col clause.Column, value any) clause.Expression { return clause.Eq{Column: col, Value: value} },
	"neq":  func(col clause.Column, value any) clause.Expression { return clause.Neq{Column: col, Value: value} },
	"gt":   func(col clause.Column, value any) clause.Expression { return clause.Gt{Column: col, Value: value} },
	"ge":   func(col clause.Column, value any) clause.Expression { return clause.Gte{Column: col, Value: value} },
	"lt":   func(col clause.Column, value any) clause.Expression { return clause.Lt{Column: col, Value: value} },
	"le":   func(col clause.Column, value any) clause.Expression { return clause.Lte{Column: col, Value: value} },
	"like": func(col clause.Column, value any) clause.Expression { return clause.Like{Column: col, Value: value} },
}

func invalidFilter(format string, args ...any) error {
	return fmt.Errorf("%w: %s", customerrors.ErrInvalidFilter, fmt.Sprintf(format, args...))
}

// ParseWhere turns a where expression such as
//
//	(Name,like,%dune%)~and(SubGenre,eq,3)~or(ID,lt,5)
//
// into a gorm condition. ~and binds tighter than ~or. Field names are
// resolved against the model schema, unknown fields are rejected.
func ParseWhere(sch *schema.Schema, expr string) (clause.Expression, error) {
	rest := strings.TrimSpace(expr)
	if rest == "" {
		return nil, nil
	}

	var (
		groups  [][]clause.Expression
		current []clause.Expression
	)
	for {
		if !strings.HasPrefix(rest, "(") {
			return nil, invalidFilter("expected '(' at %q", rest)
		}
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return nil, invalidFilter("unterminated condition %q", rest)
		}

		cond, err := parseCondition(sch, rest[1:end])
		if err != nil {
			return nil, err
		}
		current = append(current, cond)

		rest = strings.TrimSpace(rest[end+1:])
		if rest == "" {
			break
		}
		switch {
		case strings.HasPrefix(rest, "~and"):
			rest = strings.TrimSpace(rest[len("~and"):])
		case strings.HasPrefix(rest, "~or"):
			groups = append(groups, current)
			current = nil
			rest = strings.TrimSpace(rest[len("~or"):])
		default:
			return nil, invalidFilter("expected ~and or ~or at %q", rest)
		}
	}
	groups = append(groups, current)

	if len(groups) == 1 {
		return clause.And(groups[0]...), nil
	}
	ors := make([]clause.Expression, 0, len(groups))
	for _, group := range groups {
		ors = append(ors, clause.And(group...))
	}
	return clause.Or(ors...), nil
}

func parseCondition(sch *schema.Schema, body string) (clause.Expression, error) {
	parts := strings.SplitN(body, ",", 3)
	if len(parts) != 3 {
		return nil, invalidFilter("condition %q needs field, operator and value", body)
	}

	field, err := lookupColumn(sch, parts[0])
	if err != nil {
		return nil, err
	}

	op := strings.ToLower(strings.TrimSpace(parts[1]))
	build, ok := whereOps[op]
	if !ok {
		return nil, invalidFilter("unknown operator %q", op)
	}

	raw := strings.TrimSpace(parts[2])
	if op == "like" {
		return build(clause.Column{Name: field.DBName}, raw), nil
	}
	value, err := convertValue(field, raw)
	if err != nil {
		return nil, err
	}
	return build(clause.Column{Name: field.DBName}, value), nil
}

func convertValue(field *schema.Field, raw string) (any, error) {
	if strings.EqualFold(raw, "null") {
		return nil, nil
	}
	switch field.DataType {
	case schema.Int, schema.Uint:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, invalidFilter("%s expects an integer, got %q", field.Name, raw)
		}
		return v, nil
	case schema.Float:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalidFilter("%s expects a number, got %q", field.Name, raw)
		}
		return v, nil
	case schema.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalidFilter("%s expects a boolean, got %q", field.Name, raw)
		}
		return v, nil
	case schema.Time:
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, invalidFilter("%s expects an RFC3339 time, got %q", field.Name, raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}

func lookupColumn(sch *schema.Schema, name string) (*schema.Field, error) {
	name = strings.TrimSpace(name)
	field := sch.LookUpField(name)
	if field == nil || field.DBName == "" {
		return nil, invalidFilter("unknown field %q", name)
	}
	return field, nil
}

// ParseSort reads a comma separated field list, a leading '-' sorts descending.
func ParseSort(sch *schema.Schema, sort string) ([]clause.OrderByColumn, error) {
	var columns []clause.OrderByColumn
	for _, item := range strings.Split(sort, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		desc := strings.HasPrefix(item, "-")
		field, err := lookupColumn(sch, strings.TrimPrefix(item, "-"))
		if err != nil {
			return nil, err
		}
		columns = append(columns, clause.OrderByColumn{
			Column: clause.Column{Name: field.DBName},
			Desc:   desc,
		})
	}
	return columns, nil
}

// ParseFields resolves a comma separated projection into column names.
func ParseFields(sch *schema.Schema, fields string) ([]string, error) {
	var columns []string
	for _, item := range strings.Split(fields, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		field, err := lookupColumn(sch, item)
		if err != nil {
			return nil, err
		}
		columns = append(columns, field.DBName)
	}
	return columns, nil
}
