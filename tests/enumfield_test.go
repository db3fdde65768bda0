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

package tests

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomoncle/enumfield"
	"github.com/tomoncle/enumfield/database"
	"github.com/tomoncle/enumfield/fixture"
	"github.com/tomoncle/enumfield/types"
	"github.com/uptrace/bun"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Type        string `mapstructure:"type"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	FixtureDir  string `mapstructure:"fixture_dir"`
	Environment string `mapstructure:"environment"`
}

func (c *Config) ConfigLoader() *database.Config {
	return &database.Config{
		ConnectionConfig: database.ConnectionConfig{
			Type:     c.Database.Type,
			Host:     c.Database.Host,
			Port:     c.Database.Port,
			Username: c.Database.Username,
			Password: c.Database.Password,
			DBName:   c.Database.DBName,
		},
		TableInitConfig: database.TableInitConfig{
			CreateTablesOnStartup: true,
		},
		FixtureConfig: database.FixtureConfig{
			AutoLoadOnStartup: true,
			Dir:               c.Database.FixtureDir,
			Environment:       c.Database.Environment,
		},
	}
}

type AnimalType int

const (
	Cat AnimalType = iota + 1
	Dog
	Turtle
)

type Pet struct {
	bun.BaseModel `bun:"table:pets,alias:p"`

	ID        int64                   `bun:"id,type:bigint,pk,autoincrement" json:"id"`
	Name      string                  `bun:"name,notnull" json:"name"`
	Kind      types.Value[AnimalType] `bun:"kind,type:integer" json:"kind"`
	CreatedAt time.Time               `bun:"created_at,nullzero" json:"created_at"`
}

func init() {
	types.MustRegister(types.MustSpec[AnimalType]("AnimalType",
		types.Member[AnimalType]{Member: Cat, Name: "Cat", Value: 1},
		types.Member[AnimalType]{Member: Dog, Name: "Dog", Value: 2},
		types.Member[AnimalType]{Member: Turtle, Name: "Turtle", Value: 3},
	))
	database.RegisterModel(&Pet{}, 1)
}

func TestMain(m *testing.M) {
	cfg := Config{
		Database: DatabaseConfig{
			Type:        "sqlite",
			DBName:      "file:enumfieldtests?mode=memory&cache=shared",
			FixtureDir:  "testdata/fixtures",
			Environment: "development",
		},
	}
	if _, err := enumfield.Init(cfg.ConfigLoader()); err != nil {
		panic("init database error: " + err.Error())
	}
	code := m.Run()
	_ = database.CloseDB()
	os.Exit(code)
}

func TestFixturesLoadedOnStartup(t *testing.T) {
	svc := enumfield.NewService[Pet]()
	ctx := context.Background()

	pets, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(pets) != 3 {
		t.Fatalf("expected 3 fixture pets, got %d", len(pets))
	}

	byName := make(map[string]*Pet, len(pets))
	for _, p := range pets {
		byName[p.Name] = p
	}
	if byName["Felix"].Kind.Must() != Cat {
		t.Errorf("Felix should be a cat, got %s", byName["Felix"].Kind.String())
	}
	if byName["Rex"].Kind.Must() != Dog {
		t.Errorf("Rex should be a dog, got %s", byName["Rex"].Kind.String())
	}
	if !byName["Stray"].Kind.IsNull() {
		t.Errorf("Stray should have no kind, got %s", byName["Stray"].Kind.String())
	}
}

func TestServiceRoundTrip(t *testing.T) {
	svc := enumfield.NewService[Pet]()
	ctx := context.Background()

	pet := &Pet{Name: "Sheldon", Kind: types.NewValue(Turtle), CreatedAt: time.Now()}
	if err := svc.Save(ctx, pet); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if pet.ID == 0 {
		t.Fatal("expected an assigned primary key")
	}

	stored, err := svc.Get(ctx, pet.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if stored.Kind.Must() != Turtle {
		t.Errorf("expected a turtle, got %s", stored.Kind.String())
	}

	data, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"AnimalType.Turtle"`) {
		t.Errorf("expected dotted enum in JSON, got %s", data)
	}

	if err := svc.Delete(ctx, pet.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
}

func TestDumpAndReload(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "pets.yml")
	if err := enumfield.DumpFixtures(ctx, path); err != nil {
		t.Fatalf("dump error: %v", err)
	}

	docs, err := fixture.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump error: %v", err)
	}
	if len(docs) != 1 || docs[0].Table != "pets" {
		t.Fatalf("unexpected dump shape: %+v", docs)
	}

	kinds := make(map[interface{}]bool)
	for _, row := range docs[0].Rows {
		kinds[row["kind"]] = true
	}
	if !kinds["AnimalType.Cat"] || !kinds["AnimalType.Dog"] {
		t.Errorf("expected dotted enums in dump, got %v", docs[0].Rows)
	}

	svc := enumfield.NewService[Pet]()
	if err := svc.Truncate(ctx); err != nil {
		t.Fatalf("truncate error: %v", err)
	}

	loader := fixture.NewLoader(database.GetDB(), "development")
	if _, err := loader.LoadDocuments(ctx, docs); err != nil {
		t.Fatalf("reload error: %v", err)
	}

	count, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 pets after reload, got %d", count)
	}
}
