package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
)

const (
	leadColumns = `id, business_name, category, address, phone, email, website, source, outreach_status, outreach_time, created_at`

	insertLeadStatement = `
		INSERT INTO leads (business_name, category, address, phone, email, website, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + leadColumns

	selectLeadStatement     = `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	selectLeadsStatement    = `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC, id DESC`
	deleteAuditsStatement   = `DELETE FROM audits WHERE lead_id = $1`
	deleteLeadStatement     = `DELETE FROM leads WHERE id = $1`
	updateOutreachStatement = `UPDATE leads SET outreach_status = $2, outreach_time = $3 WHERE id = $1`

	insertLeadErrorTemplate     = "insert lead %q: %w"
	getLeadErrorTemplate        = "get lead %d: %w"
	listLeadsErrorTemplate      = "list leads: %w"
	deleteLeadErrorTemplate     = "delete lead %d: %w"
	updateOutreachErrorTemplate = "update outreach status of lead %d: %w"
)

type rowScanner interface {
	Scan(destinations ...any) error
}

// InsertLead persists a candidate and returns the stored lead.
func (store *Store) InsertLead(executionContext context.Context, candidate leads.Candidate) (leads.Lead, error) {
	row := store.pool.QueryRow(
		executionContext,
		insertLeadStatement,
		candidate.BusinessName,
		leads.ValueOrPlaceholder(candidate.Category),
		leads.ValueOrPlaceholder(candidate.Address),
		leads.ValueOrPlaceholder(candidate.Phone),
		leads.ValueOrPlaceholder(candidate.Email),
		candidate.Website,
		string(candidate.Source),
	)
	lead, scanError := scanLead(row)
	if scanError != nil {
		return leads.Lead{}, fmt.Errorf(insertLeadErrorTemplate, candidate.BusinessName, scanError)
	}
	return lead, nil
}

// GetLead loads one lead or returns ErrNotFound.
func (store *Store) GetLead(executionContext context.Context, leadID int64) (leads.Lead, error) {
	lead, scanError := scanLead(store.pool.QueryRow(executionContext, selectLeadStatement, leadID))
	if errors.Is(scanError, pgx.ErrNoRows) {
		return leads.Lead{}, fmt.Errorf(getLeadErrorTemplate, leadID, ErrNotFound)
	}
	if scanError != nil {
		return leads.Lead{}, fmt.Errorf(getLeadErrorTemplate, leadID, scanError)
	}
	return lead, nil
}

// ListLeads returns every lead, newest first.
func (store *Store) ListLeads(executionContext context.Context) ([]leads.Lead, error) {
	rows, queryError := store.pool.Query(executionContext, selectLeadsStatement)
	if queryError != nil {
		return nil, fmt.Errorf(listLeadsErrorTemplate, queryError)
	}
	defer rows.Close()

	storedLeads := make([]leads.Lead, 0)
	for rows.Next() {
		lead, scanError := scanLead(rows)
		if scanError != nil {
			return nil, fmt.Errorf(listLeadsErrorTemplate, scanError)
		}
		storedLeads = append(storedLeads, lead)
	}
	if rowsError := rows.Err(); rowsError != nil {
		return nil, fmt.Errorf(listLeadsErrorTemplate, rowsError)
	}
	return storedLeads, nil
}

// DeleteLead removes a lead and its audit history in one transaction.
func (store *Store) DeleteLead(executionContext context.Context, leadID int64) error {
	transactionError := pgx.BeginFunc(executionContext, store.pool, func(transaction pgx.Tx) error {
		if _, auditsError := transaction.Exec(executionContext, deleteAuditsStatement, leadID); auditsError != nil {
			return auditsError
		}
		tag, leadError := transaction.Exec(executionContext, deleteLeadStatement, leadID)
		if leadError != nil {
			return leadError
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if transactionError != nil {
		return fmt.Errorf(deleteLeadErrorTemplate, leadID, transactionError)
	}
	return nil
}

// UpdateOutreachStatus records the outcome of an outreach attempt.
func (store *Store) UpdateOutreachStatus(executionContext context.Context, leadID int64, status leads.OutreachStatus, attemptedAt time.Time) error {
	tag, updateError := store.pool.Exec(executionContext, updateOutreachStatement, leadID, string(status), attemptedAt)
	if updateError != nil {
		return fmt.Errorf(updateOutreachErrorTemplate, leadID, updateError)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf(updateOutreachErrorTemplate, leadID, ErrNotFound)
	}
	return nil
}

func scanLead(row rowScanner) (leads.Lead, error) {
	var (
		lead           leads.Lead
		source         string
		outreachStatus string
	)
	scanError := row.Scan(
		&lead.ID,
		&lead.BusinessName,
		&lead.Category,
		&lead.Address,
		&lead.Phone,
		&lead.Email,
		&lead.Website,
		&source,
		&outreachStatus,
		&lead.OutreachTime,
		&lead.CreatedAt,
	)
	if scanError != nil {
		return leads.Lead{}, scanError
	}
	lead.Source = leads.Source(source)
	lead.OutreachStatus = leads.OutreachStatus(outreachStatus)
	return lead, nil
}
