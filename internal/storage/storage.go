// internal/storage/storage.go
package storage

import (
	"context"

	"juros-justos/internal/domain"
)

// LeadsTable is where captured leads are inserted.
const LeadsTable = "juros_justos"

// LeadStorage is insert-only: captured leads are never read back, updated
// or deleted by this service.
type LeadStorage interface {
	InsertLead(ctx context.Context, lead *domain.Lead) error
}
