package config

type TLSConfig interface {
	GetTLSCertFile() string
	GetTLSKeyFile() string
	GetAutocertDomain() string
}

type TLS struct{}

var _ TLSConfig = TLS{}

func (TLS) GetTLSCertFile() string {
	return GetEnv("TLS_CERT_FILE", "")
}

func (TLS) GetTLSKeyFile() string {
	return GetEnv("TLS_KEY_FILE", "")
}

// GetAutocertDomain enables ACME certificates for the given host when set
func (TLS) GetAutocertDomain() string {
	return GetEnv("TLS_AUTOCERT_DOMAIN", "")
}
