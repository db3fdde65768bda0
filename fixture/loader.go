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
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tomoncle/enumfield/database"

	"github.com/uptrace/bun"
)

// Loader discovers fixture files and inserts their rows through Bun.
// Files are taken from <root>/common plus <root>/environments/<env>, ordered
// by their numeric filename prefix. Any malformed dotted enum reference or
// unknown table/column aborts the load; there is no partial recovery.
type Loader struct {
	db          *bun.DB
	environment string
	root        string
	flush       bool
	logger      database.Logger
}

// FileInfo describes a fixture file scheduled for loading.
type FileInfo struct {
	Path        string
	Name        string
	Order       int
	Environment string
	ModTime     time.Time
}

// LoadResult contains the outcome of loading a single fixture file.
type LoadResult struct {
	File     string
	Tables   int
	Rows     int
	Duration time.Duration
}

// NewLoader creates a fixture loader for the given environment.
func NewLoader(db *bun.DB, environment string) *Loader {
	return &Loader{
		db:          db,
		environment: environment,
		root:        "configs/fixtures",
		logger:      database.GetLogger(),
	}
}

// SetFixtureRoot sets the root directory from which fixtures are loaded.
func (l *Loader) SetFixtureRoot(path string) {
	l.root = path
}

// EnableFlush removes existing rows of every registered model before
// inserting fixture rows.
func (l *Loader) EnableFlush(b bool) {
	l.flush = b
}

// Load runs all discovered fixture files in order.
func (l *Loader) Load(ctx context.Context) error {
	// silent bulk inserts
	if _, ok := os.LookupEnv("FIXTURE_SQL_LOG"); !ok {
		database.EnableBunSqlSilent(true)
		defer database.EnableBunSqlSilent(false)
	}

	l.logger.Info("Starting fixture load",
		"environment", l.environment,
		"fixture_path", l.root,
	)

	files, err := l.Files()
	if err != nil {
		return fmt.Errorf("failed to discover fixture files: %w", err)
	}

	if len(files) == 0 {
		l.logger.Info("No fixture files found to load")
		return nil
	}

	if l.flush {
		if err := l.flushTables(ctx); err != nil {
			return fmt.Errorf("failed to flush tables before load: %w", err)
		}
	}

	for _, file := range files {
		result, err := l.loadFile(ctx, file.Path)
		if err != nil {
			l.logger.Error("Fixture file load failed",
				"file", file.Path,
				"error", err.Error(),
			)
			return fmt.Errorf("fixture file load failed %s: %w", file.Path, err)
		}
		l.logger.Info("Fixture file loaded successfully",
			"file", result.File,
			"tables", result.Tables,
			"rows", result.Rows,
			"duration", result.Duration.String(),
		)
	}

	l.logger.Info("Fixture load completed",
		"total_files", len(files),
		"environment", l.environment,
	)
	return nil
}

// LoadFile loads a single fixture file, bypassing directory discovery.
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	_, err := l.loadFile(ctx, path)
	return err
}

func (l *Loader) loadFile(ctx context.Context, path string) (*LoadResult, error) {
	start := time.Now()

	docs, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	rows, err := l.LoadDocuments(ctx, docs)
	if err != nil {
		return nil, err
	}

	return &LoadResult{
		File:     path,
		Tables:   len(docs),
		Rows:     rows,
		Duration: time.Since(start),
	}, nil
}

// LoadDocuments inserts parsed fixture documents, honoring registered model
// priority so parent tables fill before the tables that reference them.
func (l *Loader) LoadDocuments(ctx context.Context, docs File) (int, error) {
	models := database.GetRegisteredModels()
	byTable := make(map[string]reflect.Type, len(models))
	for _, m := range models {
		instance := m.Instance()
		byTable[TableName(instance)] = reflect.Indirect(reflect.ValueOf(instance)).Type()
	}

	for _, doc := range docs {
		if _, ok := byTable[doc.Table]; !ok {
			return 0, fmt.Errorf("fixture references unknown table %q (no registered model)", doc.Table)
		}
	}

	total := 0
	for _, m := range models {
		table := TableName(m.Instance())
		modelType := byTable[table]
		for _, doc := range docs {
			if doc.Table != table || len(doc.Rows) == 0 {
				continue
			}
			n, err := l.insertRows(ctx, modelType, doc.Rows)
			if err != nil {
				return total, fmt.Errorf("table %s: %w", table, err)
			}
			total += n
		}
	}
	return total, nil
}

func (l *Loader) insertRows(ctx context.Context, modelType reflect.Type, rows []Row) (int, error) {
	sliceType := reflect.SliceOf(reflect.PtrTo(modelType))
	slice := reflect.MakeSlice(sliceType, 0, len(rows))
	for i, row := range rows {
		p := reflect.New(modelType)
		if err := DecodeModel(row, p.Interface()); err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		slice = reflect.Append(slice, p)
	}

	slicePtr := reflect.New(sliceType)
	slicePtr.Elem().Set(slice)
	if _, err := l.db.NewInsert().Model(slicePtr.Interface()).Exec(ctx); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (l *Loader) flushTables(ctx context.Context) error {
	models := database.GetRegisteredModels()
	// reverse priority: referencing tables empty out first
	for i := len(models) - 1; i >= 0; i-- {
		instance := models[i].Instance()
		if _, err := l.db.NewDelete().Model(instance).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("failed to flush table %s: %w", TableName(instance), err)
		}
	}
	return nil
}

// Files returns the fixture files from common and environment dirs in load
// order.
func (l *Loader) Files() ([]FileInfo, error) {
	var files []FileInfo

	commonFiles, err := l.filesFromDir(filepath.Join(l.root, "common"), "common")
	if err != nil {
		return nil, fmt.Errorf("failed to list common fixture files: %w", err)
	}
	files = append(files, commonFiles...)

	envPath := filepath.Join(l.root, "environments", l.environment)
	if _, err := os.Stat(envPath); err == nil {
		envFiles, err := l.filesFromDir(envPath, l.environment)
		if err != nil {
			return nil, fmt.Errorf("failed to list environment fixture files: %w", err)
		}
		files = append(files, envFiles...)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Environment != files[j].Environment {
			return files[i].Environment == "common"
		}
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Name < files[j].Name
	})

	return files, nil
}

func (l *Loader) filesFromDir(dir, environment string) ([]FileInfo, error) {
	var files []FileInfo

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := strings.ToLower(d.Name())
		if d.IsDir() || (!strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml")) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{
			Path:        path,
			Name:        d.Name(),
			Order:       fileOrder(d.Name()),
			Environment: environment,
			ModTime:     info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// fileOrder parses the numeric prefix of names like "01_animals.yml".
// Files without a prefix sort after the numbered ones.
func fileOrder(name string) int {
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 0 {
		return 1 << 20
	}
	order, err := strconv.Atoi(name[:i])
	if err != nil {
		return 1 << 20
	}
	return order
}
