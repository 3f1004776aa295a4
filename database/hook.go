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
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"

	"github.com/tomoncle/hummer-dao/utils"
)

var operationColors = map[string]*color.Color{
	"SELECT": color.New(color.FgGreen),
	"INSERT": color.New(color.FgBlue),
	"UPDATE": color.New(color.FgYellow),
	"DELETE": color.New(color.FgMagenta),
}

var otherOperationColor = color.New(color.FgRed)

func colorizeQuery(event *bun.QueryEvent) string {
	c, ok := operationColors[event.Operation()]
	if !ok {
		c = otherOperationColor
	}
	return c.Sprint(event.Query)
}

// TraceQueryHook prints every executed statement with its duration. Errors
// other than sql.ErrNoRows are printed even when Verbose is off. Setting
// SQL_TRACE=false in the environment silences it.
type TraceQueryHook struct {
	Verbose bool
	Writer  io.Writer
}

var _ bun.QueryHook = (*TraceQueryHook)(nil)

func (h *TraceQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *TraceQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if !utils.EnvDefaultBool("SQL_TRACE", true) {
		return
	}
	quiet := event.Err == nil || errors.Is(event.Err, sql.ErrNoRows) || errors.Is(event.Err, sql.ErrTxDone)
	if !h.Verbose && quiet {
		return
	}

	now := time.Now()
	args := []interface{}{
		now.Format("2006-01-02 15:04:05.000"),
		color.CyanString("%8s", "[BUN]"),
		fmt.Sprintf("%12s", now.Sub(event.StartTime).Round(time.Microsecond)),
		colorizeQuery(event),
	}
	if event.Err != nil && !quiet {
		args = append(args, color.New(color.BgRed).Sprintf(" %s ", event.Err.Error()))
	}
	_, _ = fmt.Fprintln(h.Writer, args...)
}

// SlowQueryHook logs statements that take longer than Threshold.
type SlowQueryHook struct {
	Threshold time.Duration
	Logger    Logger
}

var _ bun.QueryHook = (*SlowQueryHook)(nil)

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.Logger == nil {
		return
	}
	duration := time.Since(event.StartTime)
	if duration > h.Threshold {
		h.Logger.Warn("Database slow query detected",
			"duration", duration,
			"slow_threshold", h.Threshold,
			"operation", event.Operation(),
			"query", event.Query,
		)
	}
}
