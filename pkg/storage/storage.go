package storage

// Config holds S3-compatible object storage settings for send report
// artifacts. MinIO and other S3-compatible services work via Endpoint
// and PathStyle.
type Config struct {
	Bucket          string `env:"REPORT_S3_BUCKET"`
	AccessKey       string `env:"REPORT_S3_ACCESS_KEY"`
	SecretKey       string `env:"REPORT_S3_SECRET_KEY"`
	Endpoint        string `env:"REPORT_S3_ENDPOINT"`
	Region          string `env:"REPORT_S3_REGION" envDefault:"us-east-1"`
	PathStyle       bool   `env:"REPORT_S3_PATH_STYLE" envDefault:"false"`
	SignedURLExpiry int    `env:"REPORT_S3_URL_EXPIRY_MINUTES" envDefault:"10080"`
}

// Configured reports whether the required credentials are present. Report
// uploads are optional: an unconfigured store means artifacts stay local.
func (c Config) Configured() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.SignedURLExpiry <= 0 {
		c.SignedURLExpiry = 7 * 24 * 60 // one week in minutes
	}
}

func (c Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
