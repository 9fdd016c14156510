package devenv

// ItchTestConfig is read from dev/.state/itch_config.json5 by the tests that
// talk to the live storefront, they are skipped when it is missing.
type ItchTestConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}
