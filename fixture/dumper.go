/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fixture

import (
	"context"
	"fmt"
	"reflect"

	"github.com/tomoncle/enumfield/database"
	"github.com/tomoncle/enumfield/types"

	"github.com/uptrace/bun"
)

// Dumper walks the tables of all registered models and renders their rows as
// fixture documents, enum columns in dotted form. Large tables are read page
// by page.
type Dumper struct {
	db       *bun.DB
	pageSize int
	logger   database.Logger
}

// NewDumper creates a fixture dumper reading through the provided Bun DB.
func NewDumper(db *bun.DB) *Dumper {
	return &Dumper{
		db:       db,
		pageSize: 500,
		logger:   database.GetLogger(),
	}
}

// SetPageSize tunes how many rows are read per query.
func (d *Dumper) SetPageSize(n int) {
	if n > 0 {
		d.pageSize = n
	}
}

// Dump reads every registered model's table and returns the fixture
// documents in registration priority order. Empty tables are omitted.
func (d *Dumper) Dump(ctx context.Context) (File, error) {
	var out File
	for _, m := range database.GetRegisteredModels() {
		instance := m.Instance()
		table := TableName(instance)
		rows, err := d.dumpTable(ctx, instance)
		if err != nil {
			return nil, fmt.Errorf("failed to dump table %s: %w", table, err)
		}
		if len(rows) == 0 {
			continue
		}
		out = append(out, Document{Table: table, Rows: rows})
		d.logger.Debug("Table dumped", "table", table, "rows", len(rows))
	}
	return out, nil
}

// DumpToFile dumps all registered models into a fixture file at path.
func (d *Dumper) DumpToFile(ctx context.Context, path string) error {
	docs, err := d.Dump(ctx)
	if err != nil {
		return err
	}
	if err := WriteFile(path, docs); err != nil {
		return err
	}
	d.logger.Info("Fixture dump written", "file", path, "tables", len(docs))
	return nil
}

func (d *Dumper) dumpTable(ctx context.Context, instance interface{}) ([]Row, error) {
	modelType := reflect.Indirect(reflect.ValueOf(instance)).Type()
	sliceType := reflect.SliceOf(reflect.PtrTo(modelType))

	var orders []string
	if col, ok := orderColumn(modelType); ok {
		orders = append(orders, col+" ASC")
	}

	var rows []Row
	for req := types.NewPageRequestWithOrders(1, d.pageSize, orders); ; req = req.Next() {
		slicePtr := reflect.New(sliceType)
		q := d.db.NewSelect().
			Model(slicePtr.Interface()).
			Limit(req.GetPageSize()).
			Offset(req.GetOffset())
		for _, order := range req.GetOrders() {
			q = q.Order(order)
		}
		if err := q.Scan(ctx); err != nil {
			return nil, err
		}

		page := slicePtr.Elem()
		for i := 0; i < page.Len(); i++ {
			row, err := EncodeModel(page.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		if page.Len() < req.GetPageSize() {
			break
		}
	}
	return rows, nil
}

// orderColumn picks the model's primary key column for a stable dump order.
func orderColumn(modelType reflect.Type) (string, bool) {
	for i := 0; i < modelType.NumField(); i++ {
		f := modelType.Field(i)
		if f.Type == baseModelType || !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("bun")
		for _, part := range splitTag(tag) {
			if part == "pk" {
				col, ok := columnName(f)
				return col, ok
			}
		}
	}
	return "", false
}

func splitTag(tag string) []string {
	if tag == "" {
		return nil
	}
	var parts []string
	cur := ""
	for _, r := range tag {
		if r == ',' {
			parts = append(parts, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	return append(parts, cur)
}
