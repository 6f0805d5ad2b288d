package configs

// StorageConfig selects where uploaded scan and profile images are kept.
// Backend is either "local" or "s3"; paths stored on records are backend
// relative strings in both cases.
type StorageConfig struct {
	Backend    string   `yaml:"backend"`
	UploadDir  string   `yaml:"upload_dir"`
	ProfileDir string   `yaml:"profile_dir"`
	S3         S3Config `yaml:"s3"`
}

type S3Config struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Endpoint  string `yaml:"endpoint"` // optional, for S3-compatible stores
}
