package auth

// LoginAuditor records the outcome of every authentication attempt.
// Implemented by logics.LoginAuditService; injected so the login state
// machine never reaches for ambient state.
type LoginAuditor interface {
	Record(userID *uint, success bool)
}

// CodeSender delivers a verification code to an address. Implemented by
// logics.EmailService.
type CodeSender interface {
	SendVerificationCode(to, code string) error
}

// RegisterParams are the inputs of a registration submission.
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// LoginParams are the inputs of a login submission.
type LoginParams struct {
	Username string
	Password string
}
