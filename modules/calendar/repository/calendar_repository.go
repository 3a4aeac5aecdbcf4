package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskcal/core/database"
	"taskcal/core/params"
	"taskcal/modules/calendar/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CalendarRepository interface {
	// Credentials
	UpsertCredential(ctx context.Context, cred *entity.CalendarCredential) (*entity.CalendarCredential, error)
	GetCredentialByUserID(ctx context.Context, userID uuid.UUID) (*entity.CalendarCredential, error)
	UpdateTokens(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string, expiry *time.Time) error
	UpdateSettings(ctx context.Context, userID uuid.UUID, syncEnabled bool, calendarID string) (*entity.CalendarCredential, error)
	SwitchCalendar(ctx context.Context, userID uuid.UUID, syncEnabled bool, calendarID string) (*entity.CalendarCredential, error)
	TouchLastSync(ctx context.Context, userID uuid.UUID, at time.Time) error
	DeleteCredentialAndResetEvents(ctx context.Context, userID uuid.UUID) (bool, error)
	ListSyncEnabledUserIDs(ctx context.Context) ([]uuid.UUID, error)

	// Sync history
	CreateSyncRun(ctx context.Context, run *entity.SyncRun) error
	ListSyncRuns(ctx context.Context, userID uuid.UUID, params params.QueryParams) ([]entity.SyncRun, int, error)
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

const credentialColumns = `id, user_id, access_token, refresh_token, token_expiry, email, calendar_id,
	sync_enabled, last_sync_at, created_at, updated_at`

// UpsertCredential inserts or refreshes the user's credential. Reconnecting
// re-enables sync but keeps the chosen calendar and last sync time.
func (r *calendarRepository) UpsertCredential(ctx context.Context, cred *entity.CalendarCredential) (*entity.CalendarCredential, error) {
	calendarID := cred.CalendarID
	if calendarID == "" {
		calendarID = entity.DefaultCalendarID
	}
	query := `
		INSERT INTO calendar_credentials (user_id, access_token, refresh_token, token_expiry, email, calendar_id, sync_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expiry = EXCLUDED.token_expiry,
			email = EXCLUDED.email,
			sync_enabled = TRUE,
			updated_at = NOW()
		RETURNING ` + credentialColumns

	var saved entity.CalendarCredential
	err := r.db.GetContext(ctx, &saved, query,
		cred.UserID, cred.AccessToken, cred.RefreshToken, cred.TokenExpiry, cred.Email, calendarID)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *calendarRepository) GetCredentialByUserID(ctx context.Context, userID uuid.UUID) (*entity.CalendarCredential, error) {
	var cred entity.CalendarCredential
	query := `SELECT ` + credentialColumns + ` FROM calendar_credentials WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &cred, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *calendarRepository) UpdateTokens(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string, expiry *time.Time) error {
	query := `
		UPDATE calendar_credentials
		SET access_token = $1, refresh_token = $2, token_expiry = $3, updated_at = NOW()
		WHERE user_id = $4
	`
	return r.db.ExecContext(ctx, query, accessToken, refreshToken, expiry, userID)
}

func (r *calendarRepository) UpdateSettings(ctx context.Context, userID uuid.UUID, syncEnabled bool, calendarID string) (*entity.CalendarCredential, error) {
	query := `
		UPDATE calendar_credentials
		SET sync_enabled = $1, calendar_id = $2, updated_at = NOW()
		WHERE user_id = $3
		RETURNING ` + credentialColumns

	var cred entity.CalendarCredential
	if err := r.db.GetContext(ctx, &cred, query, syncEnabled, calendarID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// SwitchCalendar points the credential at another calendar and unlinks every
// event of the user in one transaction, so the next sync exports them fresh.
func (r *calendarRepository) SwitchCalendar(ctx context.Context, userID uuid.UUID, syncEnabled bool, calendarID string) (*entity.CalendarCredential, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin calendar switch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE calendar_credentials
		SET sync_enabled = $1, calendar_id = $2, updated_at = NOW()
		WHERE user_id = $3
		RETURNING ` + credentialColumns

	var cred entity.CalendarCredential
	if err := tx.GetContext(ctx, &cred, query, syncEnabled, calendarID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update calendar: %w", err)
	}

	if err := resetEvents(ctx, tx, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit calendar switch: %w", err)
	}
	return &cred, nil
}

func (r *calendarRepository) TouchLastSync(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.ExecContext(ctx, `UPDATE calendar_credentials SET last_sync_at = $1 WHERE user_id = $2`, at, userID)
}

// DeleteCredentialAndResetEvents removes the credential and unlinks every
// event of the user in one transaction.
func (r *calendarRepository) DeleteCredentialAndResetEvents(ctx context.Context, userID uuid.UUID) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin disconnect: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM calendar_credentials WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete credential: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := resetEvents(ctx, tx, userID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit disconnect: %w", err)
	}
	return deleted > 0, nil
}

func resetEvents(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE events
		SET external_id = NULL, sync_status = 'pending', external_updated_at = NULL, updated_at = NOW()
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("reset events: %w", err)
	}
	return nil
}

func (r *calendarRepository) ListSyncEnabledUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM calendar_credentials WHERE sync_enabled = TRUE ORDER BY user_id`); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *calendarRepository) CreateSyncRun(ctx context.Context, run *entity.SyncRun) error {
	query := `
		INSERT INTO calendar_sync_runs (user_id, trigger, imported, exported, conflicts, errors, success, started_at, finished_at)
		VALUES (:user_id, :trigger, :imported, :exported, :conflicts, :errors, :success, :started_at, :finished_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, run)
	return err
}

func (r *calendarRepository) ListSyncRuns(ctx context.Context, userID uuid.UUID, params params.QueryParams) ([]entity.SyncRun, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM calendar_sync_runs WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	var runs []entity.SyncRun
	query := `
		SELECT id, user_id, trigger, imported, exported, conflicts, errors, success, started_at, finished_at
		FROM calendar_sync_runs
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &runs, query, userID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}
