package configs

type LogsConfig struct {
	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}
