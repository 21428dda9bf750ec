package repositories

// RepositoryProvider bundles every repository the service layer needs.
type RepositoryProvider struct {
	LedgerRepo    LedgerRepositoryFacade
	ProductRepo   ProductRepositoryFacade
	PartyRepo     PartyRepositoryFacade
	ReportingRepo ReportingRepository
}
