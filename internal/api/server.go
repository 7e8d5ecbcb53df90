package api

import (
	"net/http"

	"github.com/shimono/personium-lib-common/internal/api/middleware"
	"github.com/shimono/personium-lib-common/internal/audit"
	"github.com/shimono/personium-lib-common/internal/service"
)

// AuditLog is the read side of the audit trail exposed on the admin routes.
type AuditLog interface {
	GetRecent(limit int) ([]audit.Entry, error)
}

type Server struct {
	tokenService *service.TokenService
	auditLog     AuditLog
}

func NewServer(tokenService *service.TokenService, auditLog AuditLog) *Server {
	return &Server{
		tokenService: tokenService,
		auditLog:     auditLog,
	}
}

func (s *Server) Routes(adminToken string) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// token routes
	mux.HandleFunc("POST "+IssueTokenRoute, s.handleIssue)
	mux.HandleFunc("POST "+VerifyTokenRoute, s.handleVerify)
	mux.HandleFunc("POST "+RefreshTokenRoute, s.handleRefresh)
	mux.HandleFunc("POST "+ExchangeTokenRoute, s.handleExchange)

	// admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudit)
	mux.Handle(AdminParent, middleware.AdminAuth(adminToken)(adminMux))

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
