package handlers

import (
	portssvc "github.com/almacenpos/almacen_backend/internal/core/ports/services"
	"github.com/almacenpos/almacen_backend/internal/middleware"
	"github.com/almacenpos/almacen_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.CallerIdentityMiddleware())

	RegisterTransactionRoutes(v1, services.Ledger)
	registerCashRoutes(v1, services.CashPosition)
	registerReportingRoutes(v1, services.Reporting)
	registerProductRoutes(v1, services.Catalog)
	registerPartyRoutes(v1, services.Party, services.Ledger)
}
