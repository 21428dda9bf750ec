package services

// ServiceContainer bundles every service facade the handlers need.
type ServiceContainer struct {
	Ledger       LedgerSvcFacade
	CashPosition CashPositionSvcFacade
	Reporting    ReportingSvcFacade
	Catalog      CatalogSvcFacade
	Party        PartySvcFacade
}
