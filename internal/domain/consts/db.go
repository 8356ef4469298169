package consts

// Tables
const (
	DBAttempts = "attempts"
)

// Attempts
const (
	QAttID         = "id"
	QAttSessionID  = "session_id"
	QAttItemID     = "item_id"
	QAttURL        = "url"
	QAttTitle      = "title"
	QAttOutcome    = "outcome"
	QAttErrorKind  = "error_kind"
	QAttSummary    = "summary"
	QAttUploadDate = "upload_date"
	QAttStartedAt  = "started_at"
	QAttFinishedAt = "finished_at"
)
