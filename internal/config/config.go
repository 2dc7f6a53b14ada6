// Package config handles input from etc/*.toml files and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// JSONOverrideEnv names the environment variable holding a JSON document merged over main.toml.
const JSONOverrideEnv = "STUDIO_CONFIG_JSON"

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(JSONOverrideEnv)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	applyEnv(&c)

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+JSONOverrideEnv)
	}

	return c, nil
}

// applyEnv copies the Firebase project identifiers and the service account
// credentials from the environment. The first non-empty variable of each list wins.
func applyEnv(c *Config) {
	v := viper.New()
	v.AutomaticEnv()

	bind := func(dst *string, keys ...string) {
		for _, k := range keys {
			if s := v.GetString(k); s != "" {
				*dst = s
				return
			}
		}
	}

	bind(&c.Firebase.APIKey, "NEXT_PUBLIC_FIREBASE_API_KEY", "FIREBASE_API_KEY")
	bind(&c.Firebase.AuthDomain, "NEXT_PUBLIC_FIREBASE_AUTH_DOMAIN", "FIREBASE_AUTH_DOMAIN")
	bind(&c.Firebase.ProjectID, "NEXT_PUBLIC_FIREBASE_PROJECT_ID", "FIREBASE_PROJECT_ID")
	bind(&c.Firebase.AppID, "NEXT_PUBLIC_FIREBASE_APP_ID", "FIREBASE_APP_ID")

	bind(&c.Admin.ProjectID, "FIREBASE_ADMIN_PROJECT_ID", "FIREBASE_PROJECT_ID")
	bind(&c.Admin.ClientEmail, "FIREBASE_ADMIN_CLIENT_EMAIL", "FIREBASE_CLIENT_EMAIL")
	bind(&c.Admin.PrivateKey, "FIREBASE_ADMIN_PRIVATE_KEY", "FIREBASE_PRIVATE_KEY")

	// keys pasted into a single env line carry escaped newlines
	c.Admin.PrivateKey = strings.ReplaceAll(c.Admin.PrivateKey, `\n`, "\n")
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c.redacted()); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c.redacted()); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "", EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnsupportedEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	switch c.Documents.Backend {
	case "":
		c.Documents.Backend = BackendSQL
	case BackendSQL, BackendFirestore:
	default:
		return errors.Wrapf(ErrUnsupportedBackend, "%s: %q", invalidErrMessage, c.Documents.Backend)
	}

	if c.Admin.ProjectID != "" && c.Firebase.ProjectID != "" && c.Admin.ProjectID != c.Firebase.ProjectID {
		return errors.Wrap(ErrProjectMismatch, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Broker.Enabled && c.Broker.Channel == "" {
		c.Broker.Channel = DefaultBrokerChannel
	}

	return nil
}
