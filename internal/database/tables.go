package database

import (
	"database/sql"
	"fmt"
	"ytdl/internal/domain/consts"
)

// initAttemptsTable initializes the attempts table.
func initAttemptsTable(tx *sql.Tx) error {
	query := fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS %[1]s (
        %[2]s INTEGER PRIMARY KEY AUTOINCREMENT,
        %[3]s TEXT NOT NULL,
        %[4]s TEXT NOT NULL,
        %[5]s TEXT NOT NULL,
        %[6]s TEXT,
        %[7]s TEXT NOT NULL CHECK(%[7]s IN ('done', 'skipped', 'failed')),
        %[8]s TEXT,
        %[9]s TEXT,
        %[10]s TIMESTAMP,
        %[11]s TIMESTAMP NOT NULL,
        %[12]s TIMESTAMP NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_attempts_item ON %[1]s(%[4]s);
    CREATE INDEX IF NOT EXISTS idx_attempts_session ON %[1]s(%[3]s);
    CREATE INDEX IF NOT EXISTS idx_attempts_finished ON %[1]s(%[12]s);
    `,
		consts.DBAttempts,
		consts.QAttID,
		consts.QAttSessionID,
		consts.QAttItemID,
		consts.QAttURL,
		consts.QAttTitle,
		consts.QAttOutcome,
		consts.QAttErrorKind,
		consts.QAttSummary,
		consts.QAttUploadDate,
		consts.QAttStartedAt,
		consts.QAttFinishedAt,
	)
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create attempts table: %w", err)
	}
	return nil
}
