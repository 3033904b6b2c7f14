package ports

import "go.trai.ch/vrog/internal/core/domain"

// RuleLoader builds a rule registry from a build file.
//
//go:generate mockgen -source=rule_loader.go -destination=mocks/mock_rule_loader.go -package=mocks
type RuleLoader interface {
	// Load discovers the build file walking up from cwd and returns its rules.
	Load(cwd string) (*domain.Registry, error)

	// LoadFile reads the rules from the given build file.
	LoadFile(path string) (*domain.Registry, error)
}
