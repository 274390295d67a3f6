package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"sponsorreg/internal/registry/models"
	"sponsorreg/pkg/platform/sentinel"
	platformtx "sponsorreg/pkg/platform/tx"
)

// Postgres persists agreements durably. The UNIQUE constraint on name is the
// database-side enforcement of the name-index bijection; the allocator row
// is locked FOR UPDATE so id allocation stays serial across connections.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS agreements (
	id               BIGINT PRIMARY KEY,
	name             TEXT NOT NULL UNIQUE,
	agreement_type   TEXT NOT NULL,
	location         TEXT NOT NULL,
	currency         TEXT NOT NULL,
	support_amount   BIGINT NOT NULL,
	min_support      BIGINT NOT NULL,
	max_obligation   BIGINT NOT NULL,
	interest_rate    BIGINT NOT NULL,
	penalty_rate     BIGINT NOT NULL,
	max_dependents   BIGINT NOT NULL,
	frequency        BIGINT NOT NULL,
	grace_period     BIGINT NOT NULL,
	voting_threshold BIGINT NOT NULL,
	sponsor          TEXT NOT NULL,
	immigrant        TEXT NOT NULL,
	height           BIGINT NOT NULL,
	status           BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS agreement_updates (
	agreement_id   BIGINT PRIMARY KEY REFERENCES agreements (id),
	name           TEXT NOT NULL,
	max_dependents BIGINT NOT NULL,
	support_amount BIGINT NOT NULL,
	height         BIGINT NOT NULL,
	updater        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS registry_allocator (
	singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	next_id   BIGINT NOT NULL
);

INSERT INTO registry_allocator (singleton, next_id)
VALUES (TRUE, 0)
ON CONFLICT (singleton) DO NOTHING;
`

// Migrate creates the schema and seeds the allocator. Idempotent.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate registry schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// querier is the subset of sql.DB and sql.Tx the read paths use, so reads
// can join an ambient transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) querier(ctx context.Context) querier {
	if ambient, ok := platformtx.From(ctx); ok {
		return ambient
	}
	return s.db
}

// inTx runs fn inside a transaction. A transaction already in the context
// is joined and left open for its owner to settle; otherwise one is begun
// and committed here.
func (s *Postgres) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	if ambient, ok := platformtx.From(ctx); ok {
		return fn(ambient)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, agreement models.Agreement) (uint64, error) {
	var id uint64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return s.createTx(ctx, tx, agreement, &id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Postgres) createTx(ctx context.Context, tx *sql.Tx, agreement models.Agreement, idOut *uint64) error {
	var id uint64
	if err := tx.QueryRowContext(ctx,
		`SELECT next_id FROM registry_allocator WHERE singleton FOR UPDATE`,
	).Scan(&id); err != nil {
		return fmt.Errorf("lock allocator: %w", err)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO agreements (
			id, name, agreement_type, location, currency,
			support_amount, min_support, max_obligation, interest_rate, penalty_rate,
			max_dependents, frequency, grace_period, voting_threshold,
			sponsor, immigrant, height, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		id, agreement.Name, agreement.AgreementType.String(), agreement.Location, agreement.Currency.String(),
		agreement.SupportAmount, agreement.MinSupport, agreement.MaxObligation, agreement.InterestRate, agreement.PenaltyRate,
		agreement.MaxDependents, agreement.Frequency, agreement.GracePeriod, agreement.VotingThreshold,
		agreement.Sponsor.String(), agreement.Immigrant.String(), agreement.Timestamp, agreement.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("agreement name %q: %w", agreement.Name, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert agreement: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE registry_allocator SET next_id = $1 WHERE singleton`, id+1,
	); err != nil {
		return fmt.Errorf("advance allocator: %w", err)
	}

	*idOut = id
	return nil
}

func (s *Postgres) Replace(ctx context.Context, id uint64, agreement models.Agreement, update models.AgreementUpdate) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.replaceTx(ctx, tx, id, agreement, update)
	})
}

func (s *Postgres) replaceTx(ctx context.Context, tx *sql.Tx, id uint64, agreement models.Agreement, update models.AgreementUpdate) error {
	var currentName string
	err := tx.QueryRowContext(ctx,
		`SELECT name FROM agreements WHERE id = $1 FOR UPDATE`, id,
	).Scan(&currentName)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("agreement %d: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock agreement: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE agreements SET
			name = $2, agreement_type = $3, location = $4, currency = $5,
			support_amount = $6, min_support = $7, max_obligation = $8,
			interest_rate = $9, penalty_rate = $10, max_dependents = $11,
			frequency = $12, grace_period = $13, voting_threshold = $14,
			sponsor = $15, immigrant = $16, height = $17, status = $18
		WHERE id = $1`,
		id, agreement.Name, agreement.AgreementType.String(), agreement.Location, agreement.Currency.String(),
		agreement.SupportAmount, agreement.MinSupport, agreement.MaxObligation,
		agreement.InterestRate, agreement.PenaltyRate, agreement.MaxDependents,
		agreement.Frequency, agreement.GracePeriod, agreement.VotingThreshold,
		agreement.Sponsor.String(), agreement.Immigrant.String(), agreement.Timestamp, agreement.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("agreement name %q: %w", agreement.Name, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("replace agreement: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO agreement_updates (agreement_id, name, max_dependents, support_amount, height, updater)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (agreement_id) DO UPDATE SET
			name = EXCLUDED.name,
			max_dependents = EXCLUDED.max_dependents,
			support_amount = EXCLUDED.support_amount,
			height = EXCLUDED.height,
			updater = EXCLUDED.updater`,
		id, update.Name, update.MaxDependents, update.SupportAmount, update.Timestamp, update.Updater.String(),
	)
	if err != nil {
		return fmt.Errorf("overwrite update slot: %w", err)
	}
	return nil
}

func (s *Postgres) Find(ctx context.Context, id uint64) (*models.Agreement, error) {
	row := s.querier(ctx).QueryRowContext(ctx, `
		SELECT id, name, agreement_type, location, currency,
			support_amount, min_support, max_obligation, interest_rate, penalty_rate,
			max_dependents, frequency, grace_period, voting_threshold,
			sponsor, immigrant, height, status
		FROM agreements WHERE id = $1`, id)

	var a models.Agreement
	var agreementType, currency, sponsor, immigrant string
	err := row.Scan(
		&a.ID, &a.Name, &agreementType, &a.Location, &currency,
		&a.SupportAmount, &a.MinSupport, &a.MaxObligation, &a.InterestRate, &a.PenaltyRate,
		&a.MaxDependents, &a.Frequency, &a.GracePeriod, &a.VotingThreshold,
		&sponsor, &immigrant, &a.Timestamp, &a.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("agreement %d: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find agreement: %w", err)
	}
	a.AgreementType = models.AgreementType(agreementType)
	a.Currency = models.Currency(currency)
	a.Sponsor = models.Principal(sponsor)
	a.Immigrant = models.Principal(immigrant)
	return &a, nil
}

func (s *Postgres) FindUpdate(ctx context.Context, id uint64) (*models.AgreementUpdate, error) {
	row := s.querier(ctx).QueryRowContext(ctx, `
		SELECT agreement_id, name, max_dependents, support_amount, height, updater
		FROM agreement_updates WHERE agreement_id = $1`, id)

	var u models.AgreementUpdate
	var updater string
	err := row.Scan(&u.AgreementID, &u.Name, &u.MaxDependents, &u.SupportAmount, &u.Timestamp, &updater)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("agreement %d updates: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find update slot: %w", err)
	}
	u.Updater = models.Principal(updater)
	return &u, nil
}

func (s *Postgres) Count(ctx context.Context) (uint64, error) {
	var next uint64
	err := s.querier(ctx).QueryRowContext(ctx,
		`SELECT next_id FROM registry_allocator WHERE singleton`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("read allocator: %w", err)
	}
	return next, nil
}

func (s *Postgres) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.querier(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM agreements WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check name: %w", err)
	}
	return exists, nil
}
