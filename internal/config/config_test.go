package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configDir(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(configDir(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, "studio-local", cfg.Firebase.ProjectID)
	assert.Contains(t, cfg.Admin.Users, "admin")
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid config",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			},
		},
		{
			name: "missing port",
			config: Config{
				Webserver: Webserver{Port: 0, URL: "http://localhost:8080"},
			},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing URL",
			config: Config{
				Webserver: Webserver{Port: 8080},
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "unknown engine",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				DB:        DB{GormEngine: "oracle"},
			},
			wantErr: ErrUnsupportedEngine,
		},
		{
			name: "unknown backend",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				Documents: Documents{Backend: "mongo"},
			},
			wantErr: ErrUnsupportedBackend,
		},
		{
			name: "project mismatch",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				Firebase:  Firebase{ProjectID: "a"},
				Admin:     Admin{ProjectID: "b"},
			},
			wantErr: ErrProjectMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.config)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		Broker:    Broker{Enabled: true},
	}

	require.NoError(t, validate(&cfg))
	assert.Equal(t, 5, cfg.Webserver.ShutDownTime)
	assert.Equal(t, BackendSQL, cfg.Documents.Backend)
	assert.Equal(t, DefaultBrokerChannel, cfg.Broker.Channel)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(JSONOverrideEnv, `{"Title":"Test Override","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(configDir(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
}

func TestReadConfigFromEnvironment(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_FIREBASE_API_KEY", "public-key")
	t.Setenv("FIREBASE_ADMIN_CLIENT_EMAIL", "svc@example.iam.gserviceaccount.com")
	t.Setenv("FIREBASE_ADMIN_PRIVATE_KEY", `line1\nline2`)

	cfg, err := ReadConfig(configDir(t))
	require.NoError(t, err)

	assert.Equal(t, "public-key", cfg.Firebase.APIKey)
	assert.Equal(t, "svc@example.iam.gserviceaccount.com", cfg.Admin.ClientEmail)
	assert.Equal(t, "line1\nline2", cfg.Admin.PrivateKey)
}

func TestDumpConfigRedactsSecrets(t *testing.T) {
	cfg := Config{
		Title: "Test",
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
		DB:    DB{Password: "db-secret"},
		Admin: Admin{PrivateKey: "key-secret"},
	}

	tomlStr, err := DumpConfig(&cfg)
	require.NoError(t, err)
	assert.Contains(t, tomlStr, "Test")
	assert.False(t, strings.Contains(tomlStr, "db-secret"))
	assert.False(t, strings.Contains(tomlStr, "key-secret"))

	jsonStr, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)
	assert.Contains(t, jsonStr, `"Title": "Test"`)
	assert.NotContains(t, jsonStr, "key-secret")

	// the original is untouched
	assert.Equal(t, "key-secret", cfg.Admin.PrivateKey)
}
