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
	"database/sql"
	"errors"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type shelter struct {
	bun.BaseModel `bun:"table:shelters,alias:s"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

type resident struct {
	bun.BaseModel `bun:"table:residents,alias:r"`

	ID        int64 `bun:"id,pk,autoincrement"`
	ShelterID int64 `bun:"shelter_id,notnull"`
}

func init() {
	// residents reference shelters, so shelters must come first
	RegisterModel(&resident{}, 2)
	RegisterModel(&shelter{}, 1)
}

func TestModelRegistryOrdering(t *testing.T) {
	models := GetRegisteredModels()
	require.Len(t, models, 2)
	assert.IsType(t, &shelter{}, models[0].Instance())
	assert.IsType(t, &resident{}, models[1].Instance())

	instances := RegisteredModelInstances()
	require.Len(t, instances, 2)
	assert.IsType(t, &shelter{}, instances[0])
}

func TestCreateAndDropRegisteredTables(t *testing.T) {
	sqlDB, err := sql.Open(sqliteshim.ShimName, "file:dbtest?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, CreateRegisteredTables(ctx, db, nil))
	// creating again is a no-op
	require.NoError(t, CreateRegisteredTables(ctx, db, nil))

	_, err = db.NewInsert().Model(&shelter{ID: 1, Name: "North"}).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, ResetRegisteredTables(ctx, db, nil))

	count, err := db.NewSelect().Model((*shelter)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, DropRegisteredTables(ctx, db, nil))
	_, err = db.NewSelect().Model((*shelter)(nil)).Count(ctx)
	require.Error(t, err)
	is, class := IsSqlError(err)
	assert.True(t, is)
	assert.Equal(t, NoTableErr, class)
}

func TestIsSqlErrorMySQLCodes(t *testing.T) {
	cases := []struct {
		code uint16
		want SQLError
	}{
		{1054, NoColumnErr},
		{1062, DuplicateKeyErr},
		{1048, NotNullViolationErr},
		{1216, ForeignKeyViolationErr},
		{1265, DataTruncatedErr},
		{1050, ExistTableErr},
		{1146, NoTableErr},
		{9999, UnknownErr},
	}
	for _, c := range cases {
		is, class := IsSqlError(&mysqldriver.MySQLError{Number: c.code, Message: "x"})
		assert.True(t, is, "code %d", c.code)
		assert.Equal(t, c.want, class, "code %d", c.code)
	}
}

func TestIsSqlErrorTextMatching(t *testing.T) {
	cases := []struct {
		msg  string
		want SQLError
	}{
		{"SQL logic error: no such table: pets (1)", NoTableErr},
		{"no such column: kind", NoColumnErr},
		{"table pets already exists", ExistTableErr},
		{"ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)", DuplicateKeyErr},
		{"UNIQUE constraint failed: pets.id", DuplicateKeyErr},
		{"NOT NULL constraint failed: pets.name", NotNullViolationErr},
		{"FOREIGN KEY constraint failed", ForeignKeyViolationErr},
		{"ERROR: value too long (SQLSTATE 22001)", DataTruncatedErr},
		{"datatype mismatch", InvalidTypeCastErr},
	}
	for _, c := range cases {
		is, class := IsSqlError(errors.New(c.msg))
		assert.True(t, is, c.msg)
		assert.Equal(t, c.want, class, c.msg)
	}

	is, _ := IsSqlError(errors.New("connection refused"))
	assert.False(t, is)
}

func TestDefaultConfigs(t *testing.T) {
	conn := DefaultConnectionConfig()
	assert.Equal(t, 100, conn.MaxOpenConns)
	assert.Equal(t, time.Hour, conn.ConnMaxLifetime)
	assert.True(t, conn.EnableReconnect)

	fix := DefaultFixtureConfig()
	assert.Equal(t, "configs/fixtures", fix.Dir)
	assert.Equal(t, "development", fix.Environment)
	assert.False(t, fix.AutoLoadOnStartup)
}

func TestFactoryRejectsUnsupportedType(t *testing.T) {
	f := NewDatabaseFactory()
	_, err := f.CreateFromConfig(&ConnectionConfig{Type: "oracle"})
	assert.Error(t, err)

	_, err = f.CreateFromConfig(nil)
	assert.Error(t, err)
}

func TestFactoryEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("DB_NAME", "animals")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	f := NewDatabaseFactory()
	cfg := &ConnectionConfig{Type: "postgres", Host: "localhost", Port: 5432, DBName: "x"}
	_, err := f.CreateFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 15432, cfg.Port)
	assert.Equal(t, "animals", cfg.DBName)
	assert.True(t, cfg.EnableQueryLog)
}
