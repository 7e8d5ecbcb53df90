package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/icanhazpersonium"

	TokenParent        = "/v1/token/"
	IssueTokenRoute    = TokenParent + "issue"
	VerifyTokenRoute   = TokenParent + "verify"
	RefreshTokenRoute  = TokenParent + "refresh"
	ExchangeTokenRoute = TokenParent + "exchange"

	AdminParent     = "/v1/admin/"
	ListAuditsRoute = AdminParent + "audits"
)
