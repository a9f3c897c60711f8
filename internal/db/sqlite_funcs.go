package db

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// SQLiteLowerFunc lower-cases its text argument with Unicode case folding,
// unlike SQLite's built-in LOWER which only maps ASCII letters.
const SQLiteLowerFunc = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(SQLiteLowerFunc, 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	}
	// NULL and numbers pass through untouched
	return args[0], nil
}
