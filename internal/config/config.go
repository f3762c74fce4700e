package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
)

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Upload   UploadConfig
	Firebase FirebaseConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"5001"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET" env-required:"true"`
	Issuer   string        `env:"JWT_ISSUER" env-default:"taskflow"`
	TokenTTL time.Duration `env:"JWT_TOKEN_TTL" env-default:"720h"`
	// RefreshTokenTTL bounds a session. Refreshing extends it.
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"postgres"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-default:"postgres"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE" env-default:"taskflow"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" env-default:"taskflow"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

type UploadConfig struct {
	Dir     string `env:"UPLOAD_DIR" env-default:"uploads"`
	MaxSize int64  `env:"UPLOAD_MAX_SIZE" env-default:"5242880"`
}

// FirebaseConfig enables Google sign-in through Firebase ID tokens.
// Both fields empty means the identity provider is disabled.
type FirebaseConfig struct {
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	CredentialsJSON string `env:"FIREBASE_CREDENTIALS_JSON"`
}

func (c FirebaseConfig) Enabled() bool {
	return c.CredentialsFile != "" || c.CredentialsJSON != ""
}
