package services

import (
	portsrepo "github.com/almacenpos/almacen_backend/internal/core/ports/repositories"
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.ProductRepo, repos.PartyRepo)
	container.CashPosition = NewCashPositionService(repos.ReportingRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.Catalog = NewCatalogService(repos.ProductRepo)
	container.Party = NewPartyService(repos.PartyRepo)

	return container
}
