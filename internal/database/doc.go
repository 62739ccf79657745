// Package database provides SQLite-based persistence for detection runs.
// Every run's report is stored with searchable metadata so past results can
// be listed, compared, and pruned from the history command.
package database
