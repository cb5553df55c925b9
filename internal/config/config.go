package config

type Config interface {
	EnvConfig
	CorsConfig
	GoogleConfig
	SecurityConfig
}

type mainConfig struct {
	EnvVars
	Cors
	Google
	Security
}

func New() Config {
	return mainConfig{}
}
