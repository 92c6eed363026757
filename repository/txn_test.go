package repository

import (
	"errors"
	"testing"
)

func TestRetryOnConflict(t *testing.T) {
	t.Run("returns immediately on success", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(maxTxnAttempts, func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call; got %d", calls)
		}
	})

	t.Run("re-runs after an edit conflict", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(maxTxnAttempts, func() error {
			calls++
			if calls < 2 {
				return ErrEditConflict
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if calls != 2 {
			t.Errorf("expected 2 calls; got %d", calls)
		}
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(maxTxnAttempts, func() error {
			calls++
			return ErrEditConflict
		})
		if !errors.Is(err, ErrEditConflict) {
			t.Errorf("expected ErrEditConflict; got %v", err)
		}
		if calls != maxTxnAttempts {
			t.Errorf("expected %d calls; got %d", maxTxnAttempts, calls)
		}
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		err := retryOnConflict(maxTxnAttempts, func() error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("expected the original error; got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call; got %d", calls)
		}
	})
}
