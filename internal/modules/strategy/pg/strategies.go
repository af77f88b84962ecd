package pg

import (
	"context"
	"fmt"

	"invest_bot/internal/models"
	"invest_bot/pkg/db"

	"github.com/bytedance/sonic"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS strategies (
	id         BIGSERIAL PRIMARY KEY,
	kind       TEXT        NOT NULL,
	figi       TEXT        NOT NULL,
	account_id TEXT        NOT NULL DEFAULT '',
	params     JSONB       NOT NULL DEFAULT '{}',
	enabled    BOOLEAN     NOT NULL DEFAULT TRUE,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (account_id, figi, kind)
)`

	listEnabledSQL = `SELECT kind, figi, account_id, params FROM strategies WHERE enabled ORDER BY id`

	upsertSQL = `INSERT INTO strategies (kind, figi, account_id, params, enabled)
VALUES ($1, $2, $3, $4, TRUE)
ON CONFLICT (account_id, figi, kind)
DO UPDATE SET params = EXCLUDED.params, enabled = TRUE, updated_at = now()`

	disableSQL = `UPDATE strategies SET enabled = FALSE, updated_at = now()
WHERE kind = $1 AND figi = $2 AND account_id = $3`
)

// Strategies: определения стратегий в Postgres. История сделок здесь не хранится.
type Strategies struct {
	db db.TxManager
}

func NewStrategies(db db.TxManager) *Strategies {
	return &Strategies{db: db}
}

func (s *Strategies) EnsureSchema(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.EnsureSchema: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, createTableSQL)
		return err
	})
}

// List: включённые стратегии в порядке добавления.
func (s *Strategies) List(ctx context.Context) (out []models.StrategySpec, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.ListStrategies: %w", err)
		}
	}()

	err = s.db.RunReadOnly(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		rows, err := tx.Query(ctxTx, listEnabledSQL)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				spec   models.StrategySpec
				kind   string
				params []byte
			)
			if err := rows.Scan(&kind, &spec.FIGI, &spec.AccountID, &params); err != nil {
				return err
			}
			spec.Kind = models.StrategyKind(kind)
			if len(params) > 0 {
				if err := sonic.Unmarshal(params, &spec.Params); err != nil {
					return fmt.Errorf("params of %s: %w", spec.Key(), err)
				}
			}
			out = append(out, spec)
		}
		return rows.Err()
	})
	return out, err
}

func (s *Strategies) Upsert(ctx context.Context, spec models.StrategySpec) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.UpsertStrategy: %w", err)
		}
	}()

	params := spec.Params
	if params == nil {
		params = map[string]any{}
	}
	data, err := sonic.Marshal(params)
	if err != nil {
		return err
	}
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, upsertSQL, string(spec.Kind), spec.FIGI, spec.AccountID, data)
		return err
	})
}

func (s *Strategies) Disable(ctx context.Context, spec models.StrategySpec) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.DisableStrategy: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		tag, err := tx.Exec(ctxTx, disableSQL, string(spec.Kind), spec.FIGI, spec.AccountID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("strategy %s not found", spec.Key())
		}
		return nil
	})
}
