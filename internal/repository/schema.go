package repository

import (
	"context"
	"database/sql"

	apperrors "loan-predictor/internal/common/errors"
)

// Schema creates prediction_records and its listing index. Safe to re-run.
const Schema = `
CREATE TABLE IF NOT EXISTS prediction_records (
	id                   UUID PRIMARY KEY,
	name_surname         VARCHAR(100),
	annual_income        DOUBLE PRECISION,
	debt_to_income_ratio DOUBLE PRECISION,
	credit_score         INTEGER,
	loan_amount          DOUBLE PRECISION,
	interest_rate        DOUBLE PRECISION,
	gender               VARCHAR(20),
	marital_status       VARCHAR(20),
	education_level      VARCHAR(20),
	employment_status    VARCHAR(20),
	loan_purpose         VARCHAR(30),
	grade_subgrade       VARCHAR(2),
	approved             BOOLEAN NOT NULL,
	probability          DOUBLE PRECISION NOT NULL,
	source               VARCHAR(10) NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_prediction_records_created_at
	ON prediction_records (created_at DESC);`

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return apperrors.NewQueryExecutionFailedError("ensure_schema", err)
	}
	return nil
}
