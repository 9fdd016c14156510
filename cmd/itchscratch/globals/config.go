package globals

import (
	"time"

	"itchscratch/lib/configutil"
	configlibsql "itchscratch/lib/configutil/libsql"
)

type Config struct {
	BaseUrl  string              `json:"base_url"`
	Database configlibsql.Struct `json:"database"`

	CredentialsFile string `json:"credentials_file"`
	// base64 encoded 32 byte key, the built-in key is used when empty
	CredentialsKey string `json:"credentials_key"`

	LogDir string `json:"log_dir"`
	Debug  bool   `json:"debug"`
	// 0 leaves requests without a timeout
	RequestTimeoutSeconds int  `json:"request_timeout_seconds"`
	CloudflareBypass      bool `json:"cloudflare_bypass"`
	// when set, every http message is written here while debug logging
	HttpDumpDir string `json:"http_dump_dir"`
	// when set, game pages are cached here between imports
	PageCacheDir string `json:"page_cache_dir"`
}

func DefaultConfig() Config {
	return Config{
		BaseUrl:         "https://itch.io",
		Database:        configlibsql.Struct{File: "itch.db"},
		CredentialsFile: "itch.cred",
	}
}

// LoadConfig reads `path` (and its .local override) on top of the
// defaults, a missing file just yields the defaults.
func LoadConfig(path string) (Config, error) {
	return configutil.ReadConfigOr(path, DefaultConfig())
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
