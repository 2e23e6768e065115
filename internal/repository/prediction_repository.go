// Package repository persists completed predictions in the prediction_records
// table. The portal expects the table to exist; `loanctl migrate` creates it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

const selectColumns = `
	id, name_surname, annual_income, debt_to_income_ratio, credit_score,
	loan_amount, interest_rate, gender, marital_status, education_level,
	employment_status, loan_purpose, grade_subgrade,
	approved, probability, source, created_at`

// PredictionRepository is insert-once: there is no update or delete.
type PredictionRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPredictionRepository(db *sql.DB, log logger.Logger) *PredictionRepository {
	return &PredictionRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "prediction-repository"}),
	}
}

// Create assigns ID and CreatedAt when unset and inserts the record.
func (r *PredictionRepository) Create(ctx context.Context, rec *models.PredictionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prediction_records (`+selectColumns+`
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		rec.ID,
		rec.NameSurname,
		rec.AnnualIncome,
		rec.DebtToIncomeRatio,
		rec.CreditScore,
		rec.LoanAmount,
		rec.InterestRate,
		rec.Gender,
		rec.MaritalStatus,
		rec.EducationLevel,
		rec.EmploymentStatus,
		rec.LoanPurpose,
		rec.GradeSubgrade,
		rec.Approved,
		rec.Probability,
		string(rec.Source),
		rec.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}

	r.logger.Info("prediction record created", map[string]interface{}{
		"id":       rec.ID,
		"source":   string(rec.Source),
		"approved": rec.Approved,
	})
	return nil
}

// List returns up to limit records, newest first.
func (r *PredictionRepository) List(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM prediction_records
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list", err)
	}
	defer rows.Close()

	records := make([]models.PredictionRecord, 0)
	for rows.Next() {
		var rec models.PredictionRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("list", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list", err)
	}

	return records, nil
}

// Get returns RECORD_NOT_FOUND for an unknown or malformed id.
func (r *PredictionRepository) Get(ctx context.Context, id string) (*models.PredictionRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewRecordNotFoundError(id)
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM prediction_records
		WHERE id = $1`, id)

	var rec models.PredictionRecord
	if err := scanRecord(row, &rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewRecordNotFoundError(id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get", err)
	}
	return &rec, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner, rec *models.PredictionRecord) error {
	var source string
	err := s.Scan(
		&rec.ID,
		&rec.NameSurname,
		&rec.AnnualIncome,
		&rec.DebtToIncomeRatio,
		&rec.CreditScore,
		&rec.LoanAmount,
		&rec.InterestRate,
		&rec.Gender,
		&rec.MaritalStatus,
		&rec.EducationLevel,
		&rec.EmploymentStatus,
		&rec.LoanPurpose,
		&rec.GradeSubgrade,
		&rec.Approved,
		&rec.Probability,
		&source,
		&rec.CreatedAt,
	)
	if err != nil {
		return err
	}
	rec.Source = models.Source(source)
	rec.CreatedAt = rec.CreatedAt.UTC()
	return nil
}
