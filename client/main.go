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

// The sqlauth client loads an authentication source configuration, performs
// one login against it and prints the resulting attributes. It exists for
// validating configurations from the command line; exit code 1 means the
// credentials were rejected, 2 an environmental problem.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/croessner/sqlauth/server/config"
	"github.com/croessner/sqlauth/server/core"
	"github.com/croessner/sqlauth/server/definitions"
	errors2 "github.com/croessner/sqlauth/server/errors"
	"github.com/croessner/sqlauth/server/log"
	"github.com/spf13/pflag"
)

func main() {
	var (
		configPath string
		username   string
		password   string
		logLevel   string
		logJSON    bool
	)

	pflag.StringVar(&configPath, "config", "sqlauth.yml", "Path to the authentication source configuration")
	pflag.StringVar(&username, "username", "", "Username to authenticate")
	pflag.StringVar(&password, "password", "", "Password to verify")
	pflag.StringVar(&logLevel, "log-level", "info", "Log level: none, error, warn, info or debug")
	pflag.BoolVar(&logJSON, "log-json", false, "Emit logs as JSON instead of logfmt")

	pflag.Parse()

	if username == "" {
		fmt.Fprintln(os.Stderr, "error: --username is required")
		pflag.Usage()
		os.Exit(2)
	}

	log.SetupLogging(parseLogLevel(logLevel), logJSON, "sqlauth-client")

	file, err := config.NewFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	attributes, err := core.NewEngine(file).Login(context.Background(), username, password)
	if err != nil {
		if errors.Is(err, errors2.ErrWrongUserPass) {
			fmt.Fprintln(os.Stderr, "login denied: wrong username or password")
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(2)
	}

	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s: %s\n", name, strings.Join(attributes[name], ", "))
	}
}

func parseLogLevel(name string) int {
	switch strings.ToLower(name) {
	case "none":
		return definitions.LogLevelNone
	case "error":
		return definitions.LogLevelError
	case "warn":
		return definitions.LogLevelWarn
	case "debug":
		return definitions.LogLevelDebug
	default:
		return definitions.LogLevelInfo
	}
}
