package constants

const (
	// ContextKeyUserID is the session and gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyPrincipal is the gin context key holding the resolved access.Principal.
	ContextKeyPrincipal = "principal"

	SessionCookieName = "hris_session"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 100
	MaxPageSize     = 500

	// DateLayout is the wire format for hire dates and audit log date filters.
	DateLayout = "2006-01-02"
)
