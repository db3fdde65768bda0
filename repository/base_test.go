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

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/tomoncle/enumfield/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type species int

const (
	speciesCat species = iota + 1
	speciesDog
)

func init() {
	types.MustRegister(types.MustSpec[species]("Species",
		types.Member[species]{Member: speciesCat, Name: "Cat", Value: 1},
		types.Member[species]{Member: speciesDog, Name: "Dog", Value: 2},
	))
}

type pet struct {
	bun.BaseModel `bun:"table:pets,alias:p"`

	ID      int64                `bun:"id,pk,autoincrement"`
	Name    string               `bun:"name,notnull,unique"`
	Species types.Value[species] `bun:"species,type:integer"`
}

var repoSeq int

func newTestRepository(t *testing.T) (Repository[pet], *bun.DB) {
	t.Helper()
	repoSeq++
	dsn := fmt.Sprintf("file:repo%d?mode=memory&cache=shared", repoSeq)
	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*pet)(nil)).IfNotExists().Exec(context.Background())
	require.NoError(t, err)
	return NewRepository[pet](db), db
}

func seedPets(t *testing.T, repo Repository[pet], n int) {
	t.Helper()
	pets := make([]*pet, 0, n)
	for i := 1; i <= n; i++ {
		kind := speciesCat
		if i%2 == 0 {
			kind = speciesDog
		}
		pets = append(pets, &pet{
			Name:    fmt.Sprintf("pet-%02d", i),
			Species: types.NewValue(kind),
		})
	}
	require.NoError(t, repo.Create(context.Background(), pets...))
}

func TestRepositoryCrud(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	p := &pet{Name: "Felix", Species: types.NewValue(speciesCat)}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	stored, err := repo.GetOne(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Felix", stored.Name)
	assert.Equal(t, speciesCat, stored.Species.Must())

	stored.Species.Set(speciesDog)
	require.NoError(t, repo.Update(ctx, stored))

	updated, err := repo.GetOne(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, speciesDog, updated.Species.Must())

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetOne(ctx, p.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRepositoryListAndCount(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	seedPets(t, repo, 6)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	dogs, err := repo.List(ctx, types.NewQueryFilter("species = ?", int(speciesDog)))
	require.NoError(t, err)
	assert.Len(t, dogs, 3)
	for _, d := range dogs {
		assert.Equal(t, speciesDog, d.Species.Must())
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestRepositoryPage(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	seedPets(t, repo, 7)

	page1, err := repo.Page(ctx, types.NewPageRequestWithOrders(1, 3, []string{"id ASC"}))
	require.NoError(t, err)
	assert.Equal(t, 7, page1.Total)
	require.Len(t, page1.Items, 3)
	assert.Equal(t, "pet-01", page1.Items[0].Name)
	assert.True(t, page1.HasMore())

	page3, err := repo.Page(ctx, types.NewPageRequestWithOrders(3, 3, []string{"id ASC"}))
	require.NoError(t, err)
	require.Len(t, page3.Items, 1)
	assert.Equal(t, "pet-07", page3.Items[0].Name)
	assert.False(t, page3.HasMore())
}

func TestRepositoryUpsert(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	p := &pet{ID: 1, Name: "Felix", Species: types.NewValue(speciesCat)}
	require.NoError(t, repo.Upsert(ctx, []string{"name", "species"}, []string{"id"}, p))

	p.Species = types.NewValue(speciesDog)
	require.NoError(t, repo.Upsert(ctx, []string{"name", "species"}, []string{"id"}, p))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := repo.GetOne(ctx, int64(1))
	require.NoError(t, err)
	assert.Equal(t, speciesDog, stored.Species.Must())
}

func TestRepositoryTruncate(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	seedPets(t, repo, 3)

	require.NoError(t, repo.Truncate(ctx))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRepositoryTransactions(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	p := &pet{Name: "TxPet", Species: types.NewValue(speciesCat)}
	require.NoError(t, repo.CreateWithTx(ctx, &tx, p))
	require.NoError(t, tx.Commit())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
