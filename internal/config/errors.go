package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnsupportedEngine error if db.gormEngine names an unknown driver.
	ErrUnsupportedEngine = errors.New("toml config db.gormEngine is not supported")

	// ErrUnsupportedBackend error if documents.backend names an unknown store.
	ErrUnsupportedBackend = errors.New("toml config documents.backend is not supported")

	// ErrProjectMismatch error if client and admin credentials point at different projects.
	ErrProjectMismatch = errors.New("firebase project id and admin project id differ")
)
