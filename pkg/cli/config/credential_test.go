package config_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/biogas-ops/gutboard/pkg/cli/config"
	"github.com/biogas-ops/gutboard/pkg/service/gauth"
	"github.com/m-mizutani/gt"
)

func serviceAccountJSON(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	gt.NoError(t, err).Required()
	der, err := x509.MarshalPKCS8PrivateKey(key)
	gt.NoError(t, err).Required()

	raw, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"client_email":   "gutboard@plant-project.iam.gserviceaccount.com",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"private_key_id": "key-1",
	})
	gt.NoError(t, err).Required()
	return string(raw)
}

func TestCredential_Configure(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		client, err := config.NewCredentialForTest("", "").Configure()
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("inline JSON", func(t *testing.T) {
		client, err := config.NewCredentialForTest("", serviceAccountJSON(t)).Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, client.ClientEmail()).Equal("gutboard@plant-project.iam.gserviceaccount.com")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sa.json")
		gt.NoError(t, os.WriteFile(path, []byte(serviceAccountJSON(t)), 0o600)).Required()

		client, err := config.NewCredentialForTest(path, "").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, client).NotNil()
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.NewCredentialForTest(filepath.Join(t.TempDir(), "none.json"), "").Configure()
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})

	t.Run("broken key", func(t *testing.T) {
		raw := `{"client_email":"a@b.iam.gserviceaccount.com","private_key":"not a key"}`
		_, err := config.NewCredentialForTest("", raw).Configure()
		gt.Error(t, err).Is(gauth.ErrInvalidCredentials)
	})
}
