package configs

type AuthnConfig struct {
	SessionExpireMin          int `yaml:"session_expire_min"`
	VerificationCodeExpireMin int `yaml:"verification_code_expire_min"`
}
