package ports

import "time"

// StalenessOracle reports the filesystem facts the builder bases its decisions on.
// Implementations must not cache across calls.
//
//go:generate mockgen -source=oracle.go -destination=mocks/mock_oracle.go -package=mocks
type StalenessOracle interface {
	// Exists reports whether a file exists at path.
	Exists(path string) (bool, error)

	// ModTime returns the last modification time of path.
	// It is only defined when Exists reports true.
	ModTime(path string) (time.Time, error)
}
