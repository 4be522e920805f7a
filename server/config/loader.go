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

package config

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/croessner/sqlauth/server/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Drivers supported by the engine, keyed by DSN scheme. Values are the
// database/sql driver names the registry opens connections with.
var dsnSchemes = map[string]string{
	"mysql":      "mysql",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"sqlite":     "sqlite3",
	"sqlite3":    "sqlite3",
}

// DriverForDSN resolves the database/sql driver name from the scheme prefix
// of a connection string.
func DriverForDSN(dsn string) (string, error) {
	scheme, _, found := strings.Cut(dsn, "://")
	if !found {
		return "", fmt.Errorf("%w: DSN %q has no scheme prefix", errors.ErrUnsupportedSQLDriver, dsn)
	}

	driver, assertOk := dsnSchemes[strings.ToLower(scheme)]
	if !assertOk {
		return "", fmt.Errorf("%w: scheme %q", errors.ErrUnsupportedSQLDriver, scheme)
	}

	return driver, nil
}

// NewFile loads and validates one authentication source configuration from a
// YAML file. Every schema violation and dangling reference is reported here,
// before any database connection is attempted.
func NewFile(path string) (*File, error) {
	configReader := viper.New()
	configReader.SetConfigFile(path)

	if err := configReader.ReadInConfig(); err != nil {
		return nil, err
	}

	return decodeAndValidate(configReader)
}

// NewFileFromReader behaves like NewFile but reads YAML from an io.Reader.
// It exists for embedding hosts and tests.
func NewFileFromReader(reader io.Reader) (*File, error) {
	configReader := viper.New()
	configReader.SetConfigType("yaml")

	if err := configReader.ReadConfig(reader); err != nil {
		return nil, err
	}

	return decodeAndValidate(configReader)
}

func decodeAndValidate(configReader *viper.Viper) (*File, error) {
	file := &File{}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))

	if err := configReader.Unmarshal(file, decodeHook); err != nil {
		return nil, err
	}

	if err := file.validate(); err != nil {
		return nil, err
	}

	return file, nil
}

// validate runs the struct-tag validation followed by the cross-reference
// checks the tags cannot express. It also compiles the username gates, so a
// broken regex is a load-time error, not a login-time one.
func (f *File) validate() error {
	if len(f.Databases) == 0 {
		return errors.ErrNoDatabasesConfigured
	}

	if len(f.AuthQueries) == 0 {
		return errors.ErrNoAuthQueriesConfigured
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(f); err != nil {
		return err
	}

	for name, database := range f.Databases {
		if _, err := DriverForDSN(database.DSN); err != nil {
			return fmt.Errorf("database %q: %w", name, err)
		}
	}

	seenNames := make(map[string]struct{}, len(f.AuthQueries))

	for _, authQuery := range f.AuthQueries {
		if _, duplicate := seenNames[authQuery.Name]; duplicate {
			return fmt.Errorf("%w: %q", errors.ErrDuplicateAuthQuery, authQuery.Name)
		}

		seenNames[authQuery.Name] = struct{}{}

		if _, assertOk := f.Databases[authQuery.Database]; !assertOk {
			return fmt.Errorf("%w: auth query %q references %q", errors.ErrUnknownDatabaseRef, authQuery.Name, authQuery.Database)
		}

		if authQuery.UsernameRegex != "" {
			pattern, err := regexp.Compile(authQuery.UsernameRegex)
			if err != nil {
				return fmt.Errorf("%w: auth query %q: %v", errors.ErrInvalidUsernameRegex, authQuery.Name, err)
			}

			authQuery.pattern = pattern
		}
	}

	for index, attrQuery := range f.AttrQueries {
		if _, assertOk := f.Databases[attrQuery.Database]; !assertOk {
			return fmt.Errorf("%w: attr query #%d references %q", errors.ErrUnknownDatabaseRef, index, attrQuery.Database)
		}

		for _, name := range attrQuery.OnlyForAuth {
			if _, assertOk := seenNames[name]; !assertOk {
				return fmt.Errorf("%w: attr query #%d references %q", errors.ErrUnknownAuthQueryRef, index, name)
			}
		}
	}

	return nil
}
