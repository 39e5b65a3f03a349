// Package integration is a helper for running integration tests.
package integration

import (
	"os"
	"testing"
)

// EnvDSN is the environment variable consulted for the test database
// connection string. The named database is written to: stores are created
// and destroyed in it.
const EnvDSN = `RDFKIT_TEST_DSN`

// Skip will skip the current test or benchmark if this package was built
// without the "integration" build tag.
//
// This should be used as an annotation at the top of the function, like
// (*testing.T).Parallel().
func Skip(t testing.TB) {
	if skip {
		t.Skip("skipping integration test: integration tag not provided")
	}
}

// NeedDB skips the test unless both the "integration" build tag and the
// RDFKIT_TEST_DSN environment variable are present, and returns the
// connection string.
func NeedDB(t testing.TB) string {
	t.Helper()
	Skip(t)
	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("skipping integration test: %s not set", EnvDSN)
	}
	return dsn
}
