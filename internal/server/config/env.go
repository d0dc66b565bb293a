package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables.
//
// The database can be configured either as a full DSN (DATABASE_DSN) or as
// the discrete DB_HOST / DB_USER / DB_PASS / DB_NAME variables the original
// deployment used; the discrete form wins only when all of host, user and
// password are set. The bucket is read from S3_BUCKET_NAME with
// AWS_BUCKET_USER_DATOS as the legacy fallback.
func parseEnv(c *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		c.EndpointAddr = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}

	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	host, user, pass := os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASS")
	if host != "" && user != "" && pass != "" {
		name := os.Getenv("DB_NAME")
		if name == "" {
			name = "impulsame_dev"
		}
		c.DatabaseDSN = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
			url.QueryEscape(user), url.QueryEscape(pass), host, name)
	}

	if v := os.Getenv("S3_BUCKET_NAME"); v != "" {
		c.S3Bucket = v
	} else if v := os.Getenv("AWS_BUCKET_USER_DATOS"); v != "" {
		c.S3Bucket = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.S3AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.S3SecretKey = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		c.S3Region = v
	}
	if v := os.Getenv("S3_BASE_ENDPOINT"); v != "" {
		c.S3BaseEndpoint = v
	}

	if v := os.Getenv("PRESIGN_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PresignTTL = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("UPLOADS_DISABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UploadsDisabled = b
		}
	}
}
