package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/audit"
)

const (
	insertAuditStatement = `
		INSERT INTO audits (lead_id, performance_score, seo_score, ux_score, mobile_score, overall_score, audit_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	latestAuditStatement = `
		SELECT id, lead_id, performance_score, seo_score, ux_score, mobile_score, overall_score, audit_data, created_at
		FROM audits
		WHERE lead_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	encodeAuditErrorTemplate = "encode audit data for lead %d: %w"
	saveAuditErrorTemplate   = "save audit for lead %d: %w"
	latestAuditErrorTemplate = "latest audit for lead %d: %w"
	decodeAuditErrorTemplate = "decode audit data for lead %d: %w"
)

// SaveAudit writes the complete result in a single transaction.
func (store *Store) SaveAudit(executionContext context.Context, result audit.Result) (audit.Result, error) {
	encodedDetails, encodeError := json.Marshal(result.Details)
	if encodeError != nil {
		return audit.Result{}, fmt.Errorf(encodeAuditErrorTemplate, result.LeadID, encodeError)
	}

	saved := result
	transactionError := pgx.BeginFunc(executionContext, store.pool, func(transaction pgx.Tx) error {
		return transaction.QueryRow(
			executionContext,
			insertAuditStatement,
			result.LeadID,
			result.PerformanceScore,
			result.SEOScore,
			result.UXScore,
			result.MobileScore,
			result.OverallScore,
			encodedDetails,
			result.CreatedAt,
		).Scan(&saved.ID, &saved.CreatedAt)
	})
	if transactionError != nil {
		return audit.Result{}, fmt.Errorf(saveAuditErrorTemplate, result.LeadID, transactionError)
	}
	return saved, nil
}

// LatestAudit returns the most recent audit of a lead or ErrNotFound.
func (store *Store) LatestAudit(executionContext context.Context, leadID int64) (audit.Result, error) {
	var (
		result         audit.Result
		encodedDetails []byte
	)
	scanError := store.pool.QueryRow(executionContext, latestAuditStatement, leadID).Scan(
		&result.ID,
		&result.LeadID,
		&result.PerformanceScore,
		&result.SEOScore,
		&result.UXScore,
		&result.MobileScore,
		&result.OverallScore,
		&encodedDetails,
		&result.CreatedAt,
	)
	if errors.Is(scanError, pgx.ErrNoRows) {
		return audit.Result{}, fmt.Errorf(latestAuditErrorTemplate, leadID, ErrNotFound)
	}
	if scanError != nil {
		return audit.Result{}, fmt.Errorf(latestAuditErrorTemplate, leadID, scanError)
	}
	if decodeError := json.Unmarshal(encodedDetails, &result.Details); decodeError != nil {
		return audit.Result{}, fmt.Errorf(decodeAuditErrorTemplate, leadID, decodeError)
	}
	return result, nil
}
