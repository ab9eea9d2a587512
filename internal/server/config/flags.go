package config

import (
	"flag"
	"os"
	"time"

	"github.com/arcadia-platform/arcadia-auth/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-g string   JWT signing algorithm (HS256, HS384, HS512)
//	-l int      token lifetime, hours
//	-t int      default token balance for new accounts
//	-m int      max failed attempts before lockout
//	-k int      lockout duration, minutes
//	-c int      bcrypt cost
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with flags owned by other runtimes
// (notably the test binary). Duration flags are accepted as integers and
// converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-g", "-l", "-t", "-m", "-k", "-c"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.StringVar(&config.JWTAlgorithm, "g", config.JWTAlgorithm, "JWT signing algorithm")

	tokenLifetime := fs.Int("l", int(config.TokenLifetime.Hours()), "token lifetime (in hours)")
	fs.IntVar(&config.DefaultTokenBalance, "t", config.DefaultTokenBalance, "default token balance")
	fs.IntVar(&config.MaxFailedAttempts, "m", config.MaxFailedAttempts, "max failed attempts before lockout")
	lockoutDuration := fs.Int("k", int(config.LockoutDuration.Minutes()), "lockout duration (in minutes)")
	fs.IntVar(&config.BcryptCost, "c", config.BcryptCost, "bcrypt cost")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenLifetime = time.Duration(*tokenLifetime) * time.Hour
	config.LockoutDuration = time.Duration(*lockoutDuration) * time.Minute
}
