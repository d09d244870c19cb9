// Package migrations embeds the postgres schema and applies it with goose.
package migrations

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var FS embed.FS

const dir = "sql"

func setup() error {
	goose.SetBaseFS(FS)
	return goose.SetDialect("postgres")
}

func Up(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	return goose.Up(db, dir)
}

func Down(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	return goose.Down(db, dir)
}

func Status(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	return goose.Status(db, dir)
}

// Latest returns the newest embedded migration version.
func Latest() (int64, error) {
	goose.SetBaseFS(FS)
	ms, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
	if err != nil {
		return 0, err
	}
	last, err := ms.Last()
	if err != nil {
		return 0, err
	}
	return last.Version, nil
}
