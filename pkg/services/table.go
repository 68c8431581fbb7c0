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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Table is the list/get/create/update/delete plumbing shared by every
// resource collection. Rows are addressed by their single primary key.
type Table[T any] struct {
	db     *gorm.DB
	schema *schema.Schema
	pk     *schema.Field
}

func NewTable[T any](db *gorm.DB) *Table[T] {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		panic(fmt.Sprintf("failed to parse model schema: %v", err))
	}
	if stmt.Schema.PrioritizedPrimaryField == nil {
		panic(fmt.Sprintf("model %s has no primary key", stmt.Schema.Name))
	}
	return &Table[T]{
		db:     db,
		schema: stmt.Schema,
		pk:     stmt.Schema.PrioritizedPrimaryField,
	}
}

func (t *Table[T]) DB() *gorm.DB {
	return t.db
}

func (t *Table[T]) Schema() *schema.Schema {
	return t.schema
}

func (t *Table[T]) byID(id int64) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: t.pk.DBName}, Value: id}
}

// List applies where, sort, fields, limit and offset. A limit of zero or
// less returns every matching row.
func (t *Table[T]) List(ctx context.Context, params *pagination.QueryParams) (*pagination.ListResponse[T], error) {
	if params == nil {
		params = &pagination.QueryParams{}
	}

	where, err := ParseWhere(t.schema, params.Where)
	if err != nil {
		return nil, err
	}
	order, err := ParseSort(t.schema, params.Sort)
	if err != nil {
		return nil, err
	}
	fields, err := ParseFields(t.schema, params.Fields)
	if err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		q := t.db.WithContext(ctx).Model(new(T))
		if where != nil {
			q = q.Where(where)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		slog.ErrorContext(ctx, "failed to count rows", "table", t.schema.Table, "error", err)
		return nil, err
	}

	q := base()
	if len(fields) > 0 {
		q = q.Select(fields)
	}
	if len(order) == 0 {
		order = []clause.OrderByColumn{{Column: clause.Column{Name: t.pk.DBName}}}
	}
	for _, col := range order {
		q = q.Order(col)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}
	if params.Offset > 0 {
		q = q.Offset(params.Offset)
	}

	list := make([]T, 0)
	if err := q.Find(&list).Error; err != nil {
		slog.ErrorContext(ctx, "failed to list rows", "table", t.schema.Table, "error", err)
		return nil, err
	}

	return &pagination.ListResponse[T]{
		List:     list,
		PageInfo: pagination.NewPageInfo(int(total), params.Limit, params.Offset),
	}, nil
}

func (t *Table[T]) Get(ctx context.Context, id int64) (*T, error) {
	row, err := gorm.G[T](t.db).Where(t.byID(id)).Take(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrNotFound
		}
		slog.ErrorContext(ctx, "failed to get row", "table", t.schema.Table, "id", id, "error", err)
		return nil, err
	}
	return &row, nil
}

// GetMany returns the rows whose primary key is in ids.
func (t *Table[T]) GetMany(ctx context.Context, ids []int64) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := gorm.G[T](t.db).
		Where(clause.IN{Column: clause.Column{Name: t.pk.DBName}, Values: lo.ToAnySlice(lo.Uniq(ids))}).
		Find(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get rows", "table", t.schema.Table, "error", err)
		return nil, err
	}
	return rows, nil
}

func (t *Table[T]) Create(ctx context.Context, row *T) error {
	if err := gorm.G[T](t.db).Create(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return customerrors.ErrAlreadyExists
		}
		slog.ErrorContext(ctx, "failed to create row", "table", t.schema.Table, "error", err)
		return err
	}
	return nil
}

// Update applies a column map to one row and returns the row as stored.
func (t *Table[T]) Update(ctx context.Context, id int64, updates map[string]any) (*T, error) {
	if _, err := t.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		err := t.db.WithContext(ctx).Model(new(T)).Where(t.byID(id)).Updates(updates).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, customerrors.ErrAlreadyExists
			}
			slog.ErrorContext(ctx, "failed to update row", "table", t.schema.Table, "id", id, "error", err)
			return nil, err
		}
	}
	return t.Get(ctx, id)
}

func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	return t.deleteWith(ctx, t.db, id)
}

func (t *Table[T]) deleteWith(ctx context.Context, db *gorm.DB, id int64) error {
	affected, err := gorm.G[T](db).Where(t.byID(id)).Delete(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete row", "table", t.schema.Table, "id", id, "error", err)
		return err
	}
	if affected == 0 {
		return customerrors.ErrNotFound
	}
	return nil
}
