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

package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginsCounter counts finished login attempts by outcome: "accepted",
	// "rejected" or "error".
	LoginsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlauth_logins_total",
			Help: "Number of failed and successful login attempts.",
		},
		[]string{"status"})

	// AuthQueryResultsCounter counts per-query outcomes of the
	// authentication resolution: "skipped", "failed" or "won".
	AuthQueryResultsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlauth_auth_query_results_total",
			Help: "Number of authentication query evaluations by result.",
		},
		[]string{"query", "result"})

	// QueryErrorsCounter counts SQL round-trip failures by stage.
	QueryErrorsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlauth_query_errors_total",
			Help: "Number of SQL errors by round-trip stage.",
		},
		[]string{"stage"})

	// CacheHits counts logins answered from the success cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sqlauth_cache_hits_total",
		Help: "Total number of success cache hits",
	})

	// CacheMisses counts logins that had to hit the databases.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sqlauth_cache_misses_total",
		Help: "Total number of success cache misses",
	})
)
