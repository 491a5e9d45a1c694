package simpletxmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsSerializationFailure(t *testing.T) {
	raw := &pq.Error{Code: "40001"}

	require.True(t, isSerializationFailure(raw))

	// Ошибка коммита оборачивается, код должен распознаваться сквозь цепочку
	require.True(t, isSerializationFailure(fmt.Errorf("%w: commit: %w", ErrTxFailed, raw)))

	// Двойная обертка: репозиторий, затем usecase
	errExec := errors.New("storage: failed to execute query")
	wrapped := fmt.Errorf("%w: Create - execute query: %w", errExec, raw)
	require.True(t, isSerializationFailure(fmt.Errorf("usecase: failed to create appointment: %w", wrapped)))

	require.False(t, isSerializationFailure(nil))
	require.False(t, isSerializationFailure(errors.New("boom")))
	require.False(t, isSerializationFailure(&pq.Error{Code: "23505"}))
}
