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
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Row is one fixture record keyed by column name. Enum columns carry the
// dotted "<EnumName>.<MemberName>" string form.
type Row map[string]interface{}

// Document holds the fixture rows of one table.
type Document struct {
	Table string `yaml:"table"`
	Rows  []Row  `yaml:"rows"`
}

// File is the YAML shape of a fixture file: a list of table documents.
type File []Document

// ReadFile parses a fixture file from disk.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses fixture YAML.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	for i, doc := range f {
		if doc.Table == "" {
			return nil, fmt.Errorf("fixture document %d has no table name", i)
		}
	}
	return f, nil
}

// WriteFile serializes fixture documents to disk, creating directories as
// needed.
func WriteFile(path string, f File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to serialize fixture: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create fixture directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write fixture file %s: %w", path, err)
	}
	return nil
}
