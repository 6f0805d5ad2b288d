package configs

type Secrets struct {
	SessionSecret string `yaml:"session_secret"`
}
