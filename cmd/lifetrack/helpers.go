package lifetrack

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/john-matlock-eng/lifetrack/internal/app"
	"github.com/john-matlock-eng/lifetrack/internal/db"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func parseDateOrNow(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
	}
	return t, nil
}
