package ports

import "go.trai.ch/sassy/internal/core/domain"

// ConfigLoader defines the interface for loading the server configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path on top of the defaults.
	// A missing file at the default location yields the defaults.
	Load(path string) (*domain.Options, error)
}
