package biz

import (
	"errors"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewDatasetCache, NewDashboardUseCase, NewCatalogUseCase)

// Custom errors
var (
	// ErrStorage marks failures of the underlying store: missing file,
	// unreadable database or a failed statement.
	ErrStorage = errors.New("storage error")
	// ErrTableNotAllowed is returned for previews of tables outside the whitelist.
	ErrTableNotAllowed = errors.New("table not allowed")
	// ErrInvalidLimit is returned for negative preview limits.
	ErrInvalidLimit = errors.New("invalid limit")
)
