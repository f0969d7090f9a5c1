package ports

import "go.trai.ch/grit/internal/core/domain"

// ConfigLoader defines the interface for loading the target table.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the project at root and returns the validated table.
	// An empty configPath selects root/grit.yaml when it exists and the built-in table otherwise.
	Load(root, configPath string) (*domain.Table, error)
}
