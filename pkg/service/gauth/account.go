package gauth

import (
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultTokenURI is used when the service account file has no token_uri
const DefaultTokenURI = "https://oauth2.googleapis.com/token"

// ServiceAccount holds the fields of a Google service-account JSON key
// needed for the JWT-bearer grant.
type ServiceAccount struct {
	Type         string `json:"type"`
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key" masq:"secret"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// ParseServiceAccount decodes a service-account JSON document
func ParseServiceAccount(data []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, goerr.Wrap(ErrInvalidCredentials, "failed to parse service account JSON", goerr.V("cause", err.Error()))
	}
	if sa.TokenURI == "" {
		sa.TokenURI = DefaultTokenURI
	}
	if err := sa.Validate(); err != nil {
		return nil, err
	}
	return &sa, nil
}

// LoadServiceAccountFile reads and decodes a service-account JSON file
func LoadServiceAccountFile(path string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read service account file", goerr.V("path", path))
	}
	sa, err := ParseServiceAccount(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid service account file", goerr.V("path", path))
	}
	return sa, nil
}

func (sa *ServiceAccount) Validate() error {
	if sa.ClientEmail == "" {
		return goerr.Wrap(ErrInvalidCredentials, "client_email is required")
	}
	if sa.PrivateKey == "" {
		return goerr.Wrap(ErrInvalidCredentials, "private_key is required", goerr.V("client_email", sa.ClientEmail))
	}
	if sa.TokenURI == "" {
		return goerr.Wrap(ErrInvalidCredentials, "token_uri is required", goerr.V("client_email", sa.ClientEmail))
	}
	return nil
}
