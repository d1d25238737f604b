package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hiredesk/media"
)

const envPrefix = "HIREDESK_"

// DefaultAssetHostAPI is the vendor upload API; the cloud name is appended.
const DefaultAssetHostAPI = "https://api.cloudinary.com/v1_1"

// DefaultEndpointPath is used when no upload endpoint URL is configured.
const DefaultEndpointPath = "/api/upload"

// Config is resolved once at startup and handed to every backend.
// Nothing reads the environment after FromEnv returns.
type Config struct {
	Port          string
	DataDir       string
	ServeDir      string
	PublicBaseURL string
	LogLevel      string
	LogFile       string
	JWTSecret     string

	Backend        string // embedded, endpoint, assethost, s3, gcs, sftp, local
	MaxUploadBytes int64 // can lower the 5 MiB validator cap, never raise it

	Image     ImageConfig
	Endpoint  EndpointConfig
	AssetHost AssetHostConfig
	S3        S3Config
	GCS       GCSConfig
	SFTP      SFTPConfig
}

type ImageConfig struct {
	MaxWidth  int
	MaxHeight int
	Quality   int // 1–100
	Format    string
}

// EndpointConfig targets the application's own upload route.
type EndpointConfig struct {
	URL string
}

// AssetHostConfig holds preset-based credentials for the hosted asset service.
type AssetHostConfig struct {
	APIBase      string
	CloudName    string
	UploadPreset string
}

// UploadURL is <APIBase>/<CloudName>/image/upload.
func (a AssetHostConfig) UploadURL() string {
	base := strings.TrimSuffix(a.APIBase, "/")
	if base == "" {
		base = DefaultAssetHostAPI
	}
	return fmt.Sprintf("%s/%s/image/upload", base, a.CloudName)
}

// Validate reports media.ErrConfiguration when the cloud name or preset is absent.
func (a AssetHostConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(a.CloudName) == "" {
		missing = append(missing, envPrefix+"ASSET_CLOUD_NAME")
	}
	if strings.TrimSpace(a.UploadPreset) == "" {
		missing = append(missing, envPrefix+"ASSET_UPLOAD_PRESET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: asset host requires %s", media.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

type S3Config struct {
	Bucket         string
	Region         string
	AccessKey      string
	SecretKey      string
	Endpoint       string
	PublicURL      string
	KeyPrefix      string
	ForcePathStyle bool
}

type GCSConfig struct {
	Bucket          string
	CredentialsJSON string // base64 or raw JSON; empty uses application default credentials
	PublicURL       string
	KeyPrefix       string
}

type SFTPConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	PrivateKey string // base64 or raw PEM
	RemoteDir  string
	PublicURL  string
}

// FromEnv loads configuration from HIREDESK_* environment variables and applies defaults.
func FromEnv() Config {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		DataDir:        getenv("DATA_DIR", "./data"),
		ServeDir:       getenv("SERVE_DIR", "./serve"),
		PublicBaseURL:  strings.TrimSuffix(getenv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFile:        getenv("LOG_FILE", ""),
		JWTSecret:      getenv("JWT_SECRET", ""),
		Backend:        strings.ToLower(getenv("MEDIA_BACKEND", "embedded")),
		MaxUploadBytes: getenvInt64("MAX_UPLOAD_BYTES", 5*1024*1024),
		Image: ImageConfig{
			MaxWidth:  getenvInt("IMAGE_MAX_WIDTH", 400),
			MaxHeight: getenvInt("IMAGE_MAX_HEIGHT", 400),
			Quality:   getenvInt("IMAGE_QUALITY", 70),
			Format:    getenv("IMAGE_FORMAT", "jpg"),
		},
		Endpoint: EndpointConfig{
			URL: getenv("UPLOAD_ENDPOINT", ""),
		},
		AssetHost: AssetHostConfig{
			APIBase:      getenv("ASSET_API_BASE", DefaultAssetHostAPI),
			CloudName:    getenv("ASSET_CLOUD_NAME", ""),
			UploadPreset: getenv("ASSET_UPLOAD_PRESET", ""),
		},
		S3: S3Config{
			Bucket:         getenv("S3_BUCKET", ""),
			Region:         getenv("S3_REGION", ""),
			AccessKey:      getenv("S3_ACCESS_KEY", ""),
			SecretKey:      getenv("S3_SECRET_KEY", ""),
			Endpoint:       getenv("S3_ENDPOINT", ""),
			PublicURL:      getenv("S3_PUBLIC_URL", ""),
			KeyPrefix:      strings.Trim(getenv("S3_KEY_PREFIX", ""), "/"),
			ForcePathStyle: getenvBool("S3_FORCE_PATH_STYLE", false),
		},
		GCS: GCSConfig{
			Bucket:          getenv("GCS_BUCKET", ""),
			CredentialsJSON: getenv("GCS_CREDENTIALS_JSON", ""),
			PublicURL:       getenv("GCS_PUBLIC_URL", ""),
			KeyPrefix:       strings.Trim(getenv("GCS_KEY_PREFIX", ""), "/"),
		},
		SFTP: SFTPConfig{
			Host:       getenv("SFTP_HOST", ""),
			Port:       getenv("SFTP_PORT", "22"),
			User:       getenv("SFTP_USER", ""),
			Password:   getenv("SFTP_PASSWORD", ""),
			PrivateKey: getenv("SFTP_PRIVATE_KEY", ""),
			RemoteDir:  getenv("SFTP_REMOTE_DIR", "/uploads"),
			PublicURL:  getenv("SFTP_PUBLIC_URL", ""),
		},
	}
	return cfg
}

// EndpointURL returns the configured upload endpoint, falling back to
// <PublicBaseURL>/api/upload.
func (c Config) EndpointURL() string {
	if c.Endpoint.URL != "" {
		return c.Endpoint.URL
	}
	return c.PublicBaseURL + DefaultEndpointPath
}

// SuccessDBPath returns the full path to the success ledger.
// Path: {DataDir}/success.db
func (c Config) SuccessDBPath() string {
	return filepath.Join(c.DataDir, "success.db")
}

// FailuresDBPath returns the full path to the failures ledger.
// Path: {DataDir}/failures.db
func (c Config) FailuresDBPath() string {
	return filepath.Join(c.DataDir, "failures.db")
}

// MediaURL is where the local backend's files are served from.
func (c Config) MediaURL() string {
	return c.PublicBaseURL + "/media"
}

func getenv(key, fallback string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(os.Getenv(envPrefix + key))
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvInt64(key string, fallback int64) int64 {
	parsed, err := strconv.ParseInt(os.Getenv(envPrefix+key), 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	val := os.Getenv(envPrefix + key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
