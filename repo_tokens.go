package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tokens is the revocation ledger repository. It only ever inserts rows
// or flips the revoked/expired flags on existing ones.
type Tokens interface {
	repository.Repository[*Token]

	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Token, error)
	FindActiveByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]*Token, error)

	GetByRawToken(ctx context.Context, raw string) (*Token, error)
	GetByRawTokenTx(ctx context.Context, tx bun.IDB, raw string) (*Token, error)

	Store(ctx context.Context, token *Token) (*Token, error)
	StoreTx(ctx context.Context, tx bun.IDB, token *Token) (*Token, error)

	SaveAll(ctx context.Context, tokens []*Token) error
	SaveAllTx(ctx context.Context, tx bun.IDB, tokens []*Token) error
}

type tokens struct {
	repository.Repository[*Token]
	db *bun.DB
}

var (
	_ Tokens                        = (*tokens)(nil)
	_ RevocationLedger              = (*tokens)(nil)
	_ repository.Repository[*Token] = (*tokens)(nil)
)

func NewTokensRepository(db *bun.DB) Tokens {
	repo := repository.NewRepository[*Token](db, repository.ModelHandlers[*Token]{
		NewRecord: func() *Token { return &Token{} },
		GetID: func(t *Token) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Token, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &tokens{
		Repository: repo,
		db:         db,
	}
}

func (r *tokens) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Token, error) {
	return r.FindActiveByUserTx(ctx, r.db, userID)
}

// FindActiveByUserTx returns every token for the user that is neither
// revoked nor flagged expired. Order is not significant.
func (r *tokens) FindActiveByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]*Token, error) {
	records := []*Token{}

	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.revoked = ?", false).
		Where("?TableAlias.expired = ?", false).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *tokens) GetByRawToken(ctx context.Context, raw string) (*Token, error) {
	return r.GetByRawTokenTx(ctx, r.db, raw)
}

func (r *tokens) GetByRawTokenTx(ctx context.Context, tx bun.IDB, raw string) (*Token, error) {
	record := &Token{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", raw).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *tokens) Store(ctx context.Context, token *Token) (*Token, error) {
	return r.StoreTx(ctx, r.db, token)
}

func (r *tokens) StoreTx(ctx context.Context, tx bun.IDB, token *Token) (*Token, error) {
	return r.CreateTx(ctx, tx, token)
}

func (r *tokens) SaveAll(ctx context.Context, records []*Token) error {
	return r.SaveAllTx(ctx, r.db, records)
}

// SaveAllTx persists flag mutations on existing rows in bulk.
func (r *tokens) SaveAllTx(ctx context.Context, tx bun.IDB, records []*Token) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		if _, err := r.UpdateTx(ctx, tx, record); err != nil {
			return err
		}
	}

	return nil
}
