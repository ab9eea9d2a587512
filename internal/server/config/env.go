package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present (not required in
// production). Unset or malformed variables leave the current value alone.
//
// Variables:
//
//	HTTP_ADDR                 bind address
//	DATABASE_URL              PostgreSQL DSN
//	JWT_SECRET_KEY            HMAC signing secret
//	JWT_ALGORITHM             HS256 | HS384 | HS512
//	JWT_EXPIRATION_HOURS      token lifetime, hours
//	DEFAULT_TOKENS            starting token balance
//	MAX_FAILED_ATTEMPTS       failures before lockout
//	LOCKOUT_DURATION_MINUTES  lockout window, minutes
//	BCRYPT_COST               bcrypt work factor
func parseEnv(config *Config) {
	_ = godotenv.Load()

	config.EndpointAddrHTTP = getEnv("HTTP_ADDR", config.EndpointAddrHTTP)
	config.DatabaseDSN = getEnv("DATABASE_URL", config.DatabaseDSN)
	config.SecretKey = getEnv("JWT_SECRET_KEY", config.SecretKey)
	config.JWTAlgorithm = getEnv("JWT_ALGORITHM", config.JWTAlgorithm)
	config.TokenLifetime = time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", int(config.TokenLifetime.Hours()))) * time.Hour
	config.DefaultTokenBalance = getEnvAsInt("DEFAULT_TOKENS", config.DefaultTokenBalance)
	config.MaxFailedAttempts = getEnvAsInt("MAX_FAILED_ATTEMPTS", config.MaxFailedAttempts)
	config.LockoutDuration = time.Duration(getEnvAsInt("LOCKOUT_DURATION_MINUTES", int(config.LockoutDuration.Minutes()))) * time.Minute
	config.BcryptCost = getEnvAsInt("BCRYPT_COST", config.BcryptCost)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
