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
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

func queryEvent(query string, err error) *bun.QueryEvent {
	return &bun.QueryEvent{
		Query:     query,
		StartTime: time.Now(),
		Err:       err,
	}
}

func TestQueryHookVerboseWritesQueries(t *testing.T) {
	var buf bytes.Buffer
	h := &QueryHook{envName: "DB_QUERY_LOG_TEST", enabled: true, verbose: true, writer: &buf}

	h.AfterQuery(context.Background(), queryEvent("SELECT * FROM animals", nil))

	assert.Contains(t, buf.String(), "SELECT * FROM animals")
	assert.Contains(t, buf.String(), "[BUN]")
}

func TestQueryHookQuietModeOnlyReportsErrors(t *testing.T) {
	var buf bytes.Buffer
	h := &QueryHook{envName: "DB_QUERY_LOG_TEST", enabled: true, verbose: false, writer: &buf}

	h.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))
	h.AfterQuery(context.Background(), queryEvent("SELECT 1", sql.ErrNoRows))
	assert.Empty(t, buf.String())

	h.AfterQuery(context.Background(), queryEvent("INSERT INTO animals", errors.New("constraint failed")))
	assert.Contains(t, buf.String(), "constraint failed")
}

func TestQueryHookEnvOverride(t *testing.T) {
	var buf bytes.Buffer
	h := &QueryHook{envName: "DB_QUERY_LOG_TEST", enabled: true, verbose: true, writer: &buf}

	t.Setenv("DB_QUERY_LOG_TEST", "0")
	h.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))
	assert.Empty(t, buf.String())

	t.Setenv("DB_QUERY_LOG_TEST", "2")
	h.AfterQuery(context.Background(), queryEvent("SELECT 2", nil))
	assert.Contains(t, buf.String(), "SELECT 2")
}

func TestQueryHookSilentMode(t *testing.T) {
	var buf bytes.Buffer
	h := &QueryHook{envName: "DB_QUERY_LOG_TEST", enabled: true, verbose: true, writer: &buf}

	EnableBunSqlSilent(true)
	defer EnableBunSqlSilent(false)

	h.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))
	assert.Empty(t, buf.String())
}

type recordingHook struct {
	before int
	after  int
}

func (h *recordingHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	h.before++
	return ctx
}

func (h *recordingHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	h.after++
}

func TestSilenceableHookMutesBulkLoads(t *testing.T) {
	inner := &recordingHook{}
	h := &silenceableHook{hook: inner}
	event := queryEvent("SELECT 1", nil)

	h.BeforeQuery(context.Background(), event)
	h.AfterQuery(context.Background(), event)
	assert.Equal(t, 1, inner.before)
	assert.Equal(t, 1, inner.after)

	EnableBunSqlSilent(true)
	defer EnableBunSqlSilent(false)

	h.AfterQuery(context.Background(), event)
	assert.Equal(t, 1, inner.after)
}
