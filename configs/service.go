package configs

type ServiceConfig struct {
	HttpPort       string   `yaml:"http_port"`
	BaseURL        string   `yaml:"base_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}
