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

package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateRegisteredTables creates a table for every registered model, in
// ascending priority order so that referenced tables exist before the tables
// that point at them.
func CreateRegisteredTables(ctx context.Context, db *bun.DB, logger Logger) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	models := GetRegisteredModels()
	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model.Instance()).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			if is, sqlErr := IsSqlError(err); is && sqlErr == ExistTableErr {
				continue
			}
			return fmt.Errorf("failed to create table for %T: %w", model.Instance(), err)
		}
	}

	if logger != nil {
		logger.Info("Tables ready for registered models", "count", len(models))
	}
	return nil
}

// DropRegisteredTables drops the tables of all registered models in reverse
// priority order.
func DropRegisteredTables(ctx context.Context, db *bun.DB, logger Logger) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	models := GetRegisteredModels()
	for i := len(models) - 1; i >= 0; i-- {
		_, err := db.NewDropTable().
			Model(models[i].Instance()).
			IfExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i].Instance(), err)
		}
	}

	if logger != nil {
		logger.Info("Tables dropped for registered models", "count", len(models))
	}
	return nil
}

// ResetRegisteredTables drops and recreates all registered model tables.
// Intended for tests and flush-mode fixture loads.
func ResetRegisteredTables(ctx context.Context, db *bun.DB, logger Logger) error {
	if err := DropRegisteredTables(ctx, db, logger); err != nil {
		return err
	}
	return CreateRegisteredTables(ctx, db, logger)
}
