package config

// DefaultErrorHint is appended to provider-reported errors shown to the user.
const DefaultErrorHint = "Verify you are not currently logged into a separate, unauthorized Active Directory domain account."

type SecurityConfig interface {
	GetRequireHTTPS() bool
	GetTrustForwardedProto() bool
	GetErrorHint() string
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetRequireHTTPS() bool {
	return GetBoolEnv("REQUIRE_HTTPS", true)
}

// GetTrustForwardedProto reports whether X-Forwarded-Proto from a TLS-terminating proxy is honoured.
// Off unless the app sits behind such a proxy.
func (Security) GetTrustForwardedProto() bool {
	return GetBoolEnv("TRUST_FORWARDED_PROTO", false)
}

func (Security) GetErrorHint() string {
	return GetEnv("ERROR_HINT", DefaultErrorHint)
}
