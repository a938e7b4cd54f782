package config

// AppConfig holds the runtime configuration resolved from the environment.
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string
}

// GetBearerToken returns the deployment-level bearer token clients must send.
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}
