package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/almacenpos/almacen_backend/internal/apperrors"
	"github.com/almacenpos/almacen_backend/internal/core/domain"
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	"github.com/almacenpos/almacen_backend/internal/models"
	"github.com/almacenpos/almacen_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const partyColumns = `party_id, name, phone, role, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxPartyRepository struct {
	pool *pgxpool.Pool
}

// newPgxPartyRepository creates a new repository for party data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{pool: pool}
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

func scanParty(row pgx.Row) (*models.Party, error) {
	var m models.Party
	err := row.Scan(
		&m.PartyID,
		&m.Name,
		&m.Phone,
		&m.Role,
		&m.Balance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveParty inserts a new party.
func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	modelParty := mapping.ToModelParty(party)

	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		modelParty.PartyID,
		modelParty.Name,
		modelParty.Phone,
		modelParty.Role,
		modelParty.Balance,
		modelParty.IsActive,
		modelParty.CreatedAt,
		modelParty.CreatedBy,
		modelParty.LastUpdatedAt,
		modelParty.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: party with ID %s already exists", apperrors.ErrDuplicate, modelParty.PartyID)
		}
		return fmt.Errorf("failed to save party %s: %w", modelParty.PartyID, err)
	}
	return nil
}

// UpdateParty updates mutable party fields. Balance is untouched here.
func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	modelParty := mapping.ToModelParty(party)

	query := `
		UPDATE parties
		SET name = $2, phone = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE party_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		modelParty.PartyID,
		modelParty.Name,
		modelParty.Phone,
		modelParty.IsActive,
		modelParty.LastUpdatedAt,
		modelParty.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update party %s: %w", modelParty.PartyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPartyByID retrieves a party by its ID.
func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1;`

	m, err := scanParty(r.pool.QueryRow(ctx, query, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find party by ID %s: %w", partyID, err)
	}

	domainParty := mapping.ToDomainParty(*m)
	return &domainParty, nil
}

// ListParties retrieves a paginated list of active parties, optionally by role.
func (r *PgxPartyRepository) ListParties(ctx context.Context, role *domain.PartyRole, limit, offset int) ([]domain.Party, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + partyColumns + `
		FROM parties
		WHERE is_active = TRUE AND ($1::text IS NULL OR role = $1)
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	parties := []domain.Party{}
	for rows.Next() {
		m, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		parties = append(parties, mapping.ToDomainParty(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating party rows: %w", err)
	}
	return parties, nil
}

// FindPartyByIDForUpdate retrieves a party by ID and locks the row for
// update. Must be called within a transaction.
func (r *PgxPartyRepository) FindPartyByIDForUpdate(ctx context.Context, tx pgx.Tx, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1 FOR UPDATE;`

	m, err := scanParty(tx.QueryRow(ctx, query, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: could not find or lock party %s", apperrors.ErrNotFound, partyID)
		}
		return nil, fmt.Errorf("failed to find party %s for update: %w", partyID, err)
	}

	domainParty := mapping.ToDomainParty(*m)
	return &domainParty, nil
}

// AdjustBalanceInTx applies a balance delta to a locked party row within a transaction.
func (r *PgxPartyRepository) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, partyID string, delta decimal.Decimal, userID string, now time.Time) error {
	if delta.IsZero() {
		return nil
	}

	query := `
		UPDATE parties
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE party_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, partyID, delta, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for party %s: %w", partyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: party %s not found during balance update", apperrors.ErrNotFound, partyID)
	}
	return nil
}
