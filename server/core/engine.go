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

package core

import (
	"context"
	stderrors "errors"

	"github.com/croessner/sqlauth/server/backend"
	"github.com/croessner/sqlauth/server/config"
	"github.com/croessner/sqlauth/server/definitions"
	"github.com/croessner/sqlauth/server/errors"
	"github.com/croessner/sqlauth/server/log"
	"github.com/croessner/sqlauth/server/stats"
	"github.com/croessner/sqlauth/server/util"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	cache "github.com/patrickmn/go-cache"
	"github.com/segmentio/ksuid"
)

// Engine is the public entry point of the SQL authentication source. One
// Engine per configured source; Login may be called concurrently, every
// attempt gets its own registry, result record and GUID.
type Engine struct {
	file   *config.File
	logger kitlog.Logger
	cache  *cache.Cache
}

// NewEngine creates an Engine for a validated configuration. The success
// cache is only armed when the configuration sets cache_ttl.
func NewEngine(file *config.File) *Engine {
	engine := &Engine{
		file:   file,
		logger: log.Logger,
	}

	if ttl := file.GetCacheTTL(); ttl > 0 {
		engine.cache = cache.New(ttl, 2*ttl)
	}

	return engine
}

// WithLogger replaces the package-global logger for this Engine. It is meant
// for embedding hosts and tests.
func (e *Engine) WithLogger(logger kitlog.Logger) *Engine {
	e.logger = logger

	return e
}

// Login verifies the credentials against the configured authentication
// queries and, on success, returns the merged attributes of the winning
// authentication query and every applicable attribute query.
//
// Bad credentials yield errors.ErrWrongUserPass; configuration, connection
// and unrecovered query problems yield their respective error kinds. All
// database handles opened during the attempt are released on every exit
// path.
func (e *Engine) Login(ctx context.Context, username string, password string) (backend.AttributeSet, error) {
	guid := ksuid.New().String()

	cacheKey := util.GetHash(username + "\x00" + password)

	if e.cache != nil {
		if cached, found := e.cache.Get(cacheKey); found {
			stats.CacheHits.Inc()
			stats.LoginsCounter.WithLabelValues("accepted").Inc()

			return cached.(backend.AttributeSet).Copy(), nil
		}

		stats.CacheMisses.Inc()
	}

	registry := backend.NewRegistry(e.file, e.logger, guid)

	defer registry.DisconnectAll()

	result, err := e.resolve(ctx, registry, guid, username, password)
	if err != nil {
		e.countFinished(err)
		e.logDenied(guid, username, err)

		return nil, err
	}

	if err = e.gatherAttributes(ctx, registry, guid, username, result); err != nil {
		e.countFinished(err)

		return nil, err
	}

	if e.cache != nil {
		e.cache.SetDefault(cacheKey, result.Attributes.Copy())
	}

	stats.LoginsCounter.WithLabelValues("accepted").Inc()

	level.Info(e.logger).Log(
		definitions.LogKeyGUID, guid,
		definitions.LogKeyUsername, username,
		definitions.LogKeyAuthQuery, result.Query,
		definitions.LogKeyMsg, "login successful",
		"attributes", len(result.Attributes),
	)

	return result.Attributes, nil
}

func (e *Engine) countFinished(err error) {
	if stderrors.Is(err, errors.ErrWrongUserPass) {
		stats.LoginsCounter.WithLabelValues("rejected").Inc()

		return
	}

	stats.LoginsCounter.WithLabelValues("error").Inc()
}

func (e *Engine) logDenied(guid string, username string, err error) {
	if !stderrors.Is(err, errors.ErrWrongUserPass) {
		level.Error(e.logger).Log(
			definitions.LogKeyGUID, guid,
			definitions.LogKeyUsername, username,
			definitions.LogKeyError, err,
			definitions.LogKeyErrorDetails, errorDetails(err),
		)

		return
	}

	level.Info(e.logger).Log(
		definitions.LogKeyGUID, guid,
		definitions.LogKeyUsername, username,
		definitions.LogKeyMsg, "login denied",
	)
}
