// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"juros-justos/internal/domain"
	"juros-justos/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the part of *pgxpool.Pool the storage needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Storage struct {
	db    DB
	table string
}

func NewStorage(db DB) *Storage {
	return &Storage{db: db, table: storage.LeadsTable}
}

var _ storage.LeadStorage = (*Storage)(nil)

// InsertLead stores one lead and fills in the id and created_at assigned by
// the database.
func (s *Storage) InsertLead(ctx context.Context, lead *domain.Lead) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, nome_completo, whatsapp, email, cidade_estado, descricao_situacao)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
		RETURNING id::text, created_at
	`, pgx.Identifier{s.table}.Sanitize())

	err := s.db.QueryRow(ctx, query,
		lead.ID,
		lead.NomeCompleto,
		lead.WhatsApp,
		lead.Email,
		lead.CidadeEstado,
		lead.DescricaoSituacao,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	slog.Debug("InsertLead completed", "lead_id", lead.ID)
	return nil
}

// Ping checks that the leads table is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	query := fmt.Sprintf("SELECT 1 FROM %s LIMIT 0", pgx.Identifier{s.table}.Sanitize())
	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("check leads table: %w", err)
	}
	return nil
}
