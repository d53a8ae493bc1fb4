// Package pg wires PostgreSQL through pgx/v5: a retrying pool constructor,
// a readiness check, goose migrations served from an fs.FS, and helpers that
// classify driver errors.
package pg
