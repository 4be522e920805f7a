// Copyright (C) 2026 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package backend

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/croessner/sqlauth/server/config"
	"github.com/croessner/sqlauth/server/definitions"
	"github.com/croessner/sqlauth/server/errors"
	"github.com/croessner/sqlauth/server/util"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Registry owns the database handles of exactly one login attempt. Handles
// are opened lazily on first use and cached by name until DisconnectAll.
// A Registry is never shared between attempts.
type Registry struct {
	file   *config.File
	logger log.Logger
	guid   string
	conns  map[string]*sqlx.DB
}

func NewRegistry(file *config.File, logger log.Logger, guid string) *Registry {
	return &Registry{
		file:   file,
		logger: logger,
		guid:   guid,
		conns:  make(map[string]*sqlx.DB),
	}
}

// Connect returns the live handle for a configured database name, opening it
// on first use. Connection errors carry the redacted DSN only.
func (r *Registry) Connect(ctx context.Context, name string) (*sqlx.DB, error) {
	if conn, assertOk := r.conns[name]; assertOk {
		return conn, nil
	}

	database, assertOk := r.file.GetDatabase(name)
	if !assertOk {
		return nil, errors.ErrSQLConfig.WithGUID(r.guid).WithDetail(
			fmt.Sprintf("No database %q configured", name))
	}

	driver, err := config.DriverForDSN(database.DSN)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.ConnectContext(ctx, driver, buildDSN(database, driver))
	if err != nil {
		return nil, errors.ErrDatabaseConnect.WithGUID(r.guid).WithDetail(
			fmt.Sprintf("%s: %s", util.RedactDSN(database.DSN), util.RedactDSN(err.Error())))
	}

	r.setupSession(ctx, conn, driver, name)

	r.conns[name] = conn

	return conn, nil
}

// setupSession applies one driver-specific session command after a successful
// connect. Drivers without a known command get no special treatment.
func (r *Registry) setupSession(ctx context.Context, conn *sqlx.DB, driver string, name string) {
	var command string

	switch driver {
	case "mysql":
		command = "SET NAMES 'utf8mb4'"
	case "postgres":
		command = "SET CLIENT_ENCODING TO 'UTF8'"
	default:
		return
	}

	if _, err := conn.ExecContext(ctx, command); err != nil {
		level.Warn(r.logger).Log(
			definitions.LogKeyGUID, r.guid,
			definitions.LogKeyDatabase, name,
			definitions.LogKeyWarning, fmt.Sprintf("session setup %q failed", command),
			definitions.LogKeyError, err,
		)
	}
}

// DisconnectAll releases every handle opened during this attempt. It is
// always called at the end of a login, success or failure.
func (r *Registry) DisconnectAll() {
	for name, conn := range r.conns {
		if err := conn.Close(); err != nil {
			level.Warn(r.logger).Log(
				definitions.LogKeyGUID, r.guid,
				definitions.LogKeyDatabase, name,
				definitions.LogKeyWarning, "closing database handle failed",
				definitions.LogKeyError, err,
			)
		}

		delete(r.conns, name)
	}
}

// buildDSN injects configured credentials and driver options into the raw
// DSN and rewrites it into the form the database/sql driver expects. URL
// style is kept for postgres; mysql and sqlite3 drivers receive the DSN with
// the scheme prefix stripped, as they define their own formats.
func buildDSN(database *config.Database, driver string) string {
	dsn := appendOptions(database.DSN, database.Options)

	switch driver {
	case "postgres":
		if database.Username == "" {
			return dsn
		}

		parsed, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}

		parsed.User = url.UserPassword(database.Username, database.Password)

		return parsed.String()
	case "mysql":
		dsn = dsn[strings.Index(dsn, "://")+3:]

		if database.Username != "" && !strings.Contains(dsn, "@") {
			dsn = fmt.Sprintf("%s:%s@%s", database.Username, database.Password, dsn)
		}

		return dsn
	default:
		return dsn[strings.Index(dsn, "://")+3:]
	}
}

// appendOptions adds option key/value pairs as DSN query parameters without
// overriding parameters the DSN already carries.
func appendOptions(dsn string, options map[string]string) string {
	if len(options) == 0 {
		return dsn
	}

	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var builder strings.Builder

	builder.WriteString(dsn)

	for _, key := range keys {
		if strings.Contains(dsn, key+"=") {
			continue
		}

		if strings.Contains(builder.String(), "?") {
			builder.WriteString("&")
		} else {
			builder.WriteString("?")
		}

		builder.WriteString(url.QueryEscape(key))
		builder.WriteString("=")
		builder.WriteString(url.QueryEscape(options[key]))
	}

	return builder.String()
}
