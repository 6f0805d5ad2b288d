package configs

// ClassifierConfig points at the external inference service that maps a
// brain-scan image to a tumor label and confidence score.
type ClassifierConfig struct {
	Endpoint   string `yaml:"endpoint"`
	TimeoutSec int    `yaml:"timeout_sec"`
}
