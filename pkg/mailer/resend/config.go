package resend

// Config holds Resend email provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey string `env:"RESEND_API_KEY"`
}

// Configured reports whether the provider can be constructed.
// An unconfigured provider is not an error at startup: the executor degrades
// into dry mode (when requested) and /health keeps reporting the gap.
func (c Config) Configured() bool {
	return c.APIKey != ""
}
