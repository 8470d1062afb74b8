package base

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const defaultRetryBaseDelay = 50 * time.Millisecond

type txKey struct{}

// TxFromContext достаёт транзакцию, открытую TxManager
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// TxManager выполняет функции в транзакции и повторяет их при конфликтах сериализации
type TxManager struct {
	pool       *pgxpool.Pool
	maxRetries uint64
	baseDelay  time.Duration
	logger     *zap.Logger
}

// NewTxManager создаёт менеджер транзакций
func NewTxManager(pool *pgxpool.Pool, maxRetries int, baseDelay time.Duration, logger *zap.Logger) *TxManager {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = defaultRetryBaseDelay
	}
	return &TxManager{
		pool:       pool,
		maxRetries: uint64(maxRetries),
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// WithinTx выполняет fn в транзакции. Репозитории, получившие ctx из fn,
// работают внутри этой транзакции. Вложенный вызов присоединяется к внешней.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	backoff := retry.WithMaxRetries(m.maxRetries, retry.NewExponential(m.baseDelay))
	attempt := 0

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := m.runOnce(ctx, fn)
		if err != nil && IsRetryable(err) {
			m.logger.Warn("Transaction conflict, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (m *TxManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
