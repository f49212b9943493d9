package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// EnvConfigPath overrides the configuration file location when set.
const EnvConfigPath = "CAMPUSWATCH_CONFIG_PATH"

type Server struct {
	ListenAddress  string   `yaml:"listenAddress"`
	TLSCertFile    string   `yaml:"tlsCertFile"`
	TLSKeyFile     string   `yaml:"tlsKeyFile"`
	TrustedProxies []string `yaml:"trustedProxies"` // IPs/CIDRs to trust for X-Forwarded-For headers
}

type Frontend struct {
	BaseURL string `yaml:"baseURL"`
	// BrandingName optionally overrides the product name shown in the UI
	// and in notification mails. If empty, defaults to "CampusWatch".
	BrandingName string `yaml:"brandingName"`
	// StaticDir is the directory holding the built frontend assets.
	StaticDir string `yaml:"staticDir"`
	// OIDC settings handed to the SPA so it can run the login flow itself.
	OIDCAuthority string `yaml:"oidcAuthority"`
	OIDCClientID  string `yaml:"oidcClientID"`
}

// AuthorizationServer points at the external identity provider whose
// tokens this service accepts.
type AuthorizationServer struct {
	URL          string `yaml:"url"`
	JWKSEndpoint string `yaml:"jwksEndpoint"`
	// CertificateAuthority contains a PEM encoded CA certificate used to
	// validate the TLS connection when fetching the JWKS.
	CertificateAuthority string `yaml:"certificateAuthority"`
	// InsecureSkipVerify disables TLS verification for the JWKS fetch.
	// Dev and e2e only.
	InsecureSkipVerify bool `yaml:"insecureSkipVerify"`
}

// Keycloak configures the optional directory lookups used to resolve
// user display names and mail addresses for notifications.
type Keycloak struct {
	Disable      bool   `yaml:"disable"`
	BaseURL      string `yaml:"baseURL"`
	Realm        string `yaml:"realm"`
	ClientID     string `yaml:"clientID"`
	ClientSecret string `yaml:"clientSecret"`
}

type Database struct {
	// Path to the SQLite database file. Defaults to "./campuswatch.db".
	Path string `yaml:"path"`
}

// Storage configures where complaint evidence media is persisted.
type Storage struct {
	// Backend is "s3" or "filesystem". Defaults to "filesystem".
	Backend string `yaml:"backend"`

	// S3 settings.
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // for S3-compatible stores, optional

	// Filesystem settings.
	LocalDir string `yaml:"localDir"`

	// PublicBaseURL is prepended to object keys to produce the evidence
	// URL recorded on complaints.
	PublicBaseURL string `yaml:"publicBaseURL"`
}

type Mail struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	SenderAddress      string `yaml:"senderAddress"`
	SenderName         string `yaml:"senderName"`
	RetryCount         int    `yaml:"retryCount"`
	RetryBackoffMs     int    `yaml:"retryBackoffMs"`
	QueueSize          int    `yaml:"queueSize"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	// AuthorityAddresses maps escalation authorities to their mailboxes.
	AuthorityAddresses map[string]string `yaml:"authorityAddresses"`
}

// Audit configures the audit trail sinks. The log sink is always active;
// Kafka is enabled when brokers and a topic are set.
type Audit struct {
	KafkaBrokers []string `yaml:"kafkaBrokers"`
	KafkaTopic   string   `yaml:"kafkaTopic"`
	SASLUser     string   `yaml:"saslUser"`
	SASLPassword string   `yaml:"saslPassword"`
	QueueSize    int      `yaml:"queueSize"`
}

type Config struct {
	Server              Server              `yaml:"server"`
	Frontend            Frontend            `yaml:"frontend"`
	AuthorizationServer AuthorizationServer `yaml:"authorizationServer"`
	Keycloak            Keycloak            `yaml:"keycloak"`
	Database            Database            `yaml:"database"`
	Storage             Storage             `yaml:"storage"`
	Mail                Mail                `yaml:"mail"`
	Audit               Audit               `yaml:"audit"`
}

// Defaults fills zero-value fields that have a sensible default.
func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.Frontend.BrandingName == "" {
		c.Frontend.BrandingName = "CampusWatch"
	}
	if c.AuthorizationServer.JWKSEndpoint == "" {
		c.AuthorizationServer.JWKSEndpoint = "protocol/openid-connect/certs"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./campuswatch.db"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "filesystem"
	}
	if c.Storage.LocalDir == "" {
		c.Storage.LocalDir = "./evidence"
	}
}

// Load loads the campuswatch configuration from a file path.
// If configPath is empty, defaults to "./config.yaml". The path can also
// be overridden via the CAMPUSWATCH_CONFIG_PATH environment variable.
func Load(configPath ...string) (Config, error) {
	var path string

	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	} else if env := os.Getenv(EnvConfigPath); env != "" {
		path = env
	} else {
		path = "./config.yaml"
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open campuswatch config file %s: %v", path, err)
	}

	err = yaml.Unmarshal(content, &config)
	if err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
	}
	return config, nil
}
