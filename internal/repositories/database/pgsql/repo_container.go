package pgsql

import (
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	productRepo := newPgxProductRepository(dbPool)
	partyRepo := newPgxPartyRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, productRepo, partyRepo)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LedgerRepo:    ledgerRepo,
		ProductRepo:   productRepo,
		PartyRepo:     partyRepo,
		ReportingRepo: reportingRepo,
	}
}
