package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type txMock struct {
	commit    func() error
	rollbacks int
}

func (t *txMock) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *txMock) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *txMock) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *txMock) Commit() error {
	return t.commit()
}

func (t *txMock) Rollback() error {
	t.rollbacks++
	return nil
}

type beginnerMock struct {
	begins  int
	lastTx  *txMock
	commits func(attempt int) error
}

func (b *beginnerMock) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	attempt := b.begins
	b.lastTx = &txMock{commit: func() error { return b.commits(attempt) }}
	return b.lastTx, nil
}

func serializationFailure() error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializable_RetriesCommitConflict(t *testing.T) {
	// Конфликт сериализации чаще всего всплывает на COMMIT:
	// первые две попытки падают с 40001, третья проходит
	db := &beginnerMock{commits: func(attempt int) error {
		if attempt < 3 {
			return serializationFailure()
		}
		return nil
	}}

	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, db.begins)
}

func TestDoSerializable_RetriesExhausted(t *testing.T) {
	db := &beginnerMock{commits: func(attempt int) error {
		return serializationFailure()
	}}

	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, ErrTxFailed)
	require.Equal(t, maxSerializableRetries, db.begins)
}

func TestDoSerializable_RetriesWrappedQueryConflict(t *testing.T) {
	// Репозитории оборачивают ошибку драйвера в свои sentinel ошибки:
	// 40001 должен распознаваться и сквозь такую цепочку
	errExec := errors.New("storage: failed to execute query")
	db := &beginnerMock{commits: func(attempt int) error {
		return nil
	}}

	m := NewTransactionManager(db)

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("%w: Create - execute query: %w", errExec, serializationFailure())
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestDoSerializable_NonSerializationErrorNotRetried(t *testing.T) {
	db := &beginnerMock{commits: func(attempt int) error {
		return nil
	}}

	m := NewTransactionManager(db)

	boom := errors.New("boom")
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, db.begins)
	require.Equal(t, 1, db.lastTx.rollbacks)
}

func TestDo_CommitErrorWrapped(t *testing.T) {
	commitErr := errors.New("connection reset")
	db := &beginnerMock{commits: func(attempt int) error {
		return commitErr
	}}

	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, ErrTxFailed)
	require.ErrorIs(t, err, commitErr)
}
