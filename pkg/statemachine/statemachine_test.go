package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/accountd/pkg/statemachine"
)

type doc struct {
	status string
	rev    int
}

func (d doc) Label() string { return d.status }

func TestTable(t *testing.T) {
	t.Parallel()

	const publish statemachine.Event = "publish"

	t.Run("fires registered transition", func(t *testing.T) {
		t.Parallel()

		table := statemachine.NewTable[doc]()
		table.MustHandle("draft", publish, func(ctx context.Context, cur doc, data any) (statemachine.Outcome[doc], error) {
			return statemachine.Outcome[doc]{Next: doc{status: "published", rev: cur.rev + 1}}, nil
		})

		out, err := table.Fire(context.Background(), doc{status: "draft", rev: 1}, publish, nil)
		require.NoError(t, err)
		assert.Equal(t, "published", out.Next.status)
		assert.Equal(t, 2, out.Next.rev)
	})

	t.Run("missing transition", func(t *testing.T) {
		t.Parallel()

		table := statemachine.NewTable[doc]()
		_, err := table.Fire(context.Background(), doc{status: "draft"}, publish, nil)
		assert.ErrorIs(t, err, statemachine.ErrNoTransition)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		t.Parallel()

		table := statemachine.NewTable[doc]()
		noop := func(ctx context.Context, cur doc, data any) (statemachine.Outcome[doc], error) {
			return statemachine.Outcome[doc]{Next: cur}, nil
		}
		require.NoError(t, table.Handle("draft", publish, noop))
		assert.ErrorIs(t, table.Handle("draft", publish, noop), statemachine.ErrDuplicateTransition)
	})

	t.Run("rejects nil transition", func(t *testing.T) {
		t.Parallel()

		table := statemachine.NewTable[doc]()
		assert.ErrorIs(t, table.Handle("draft", publish, nil), statemachine.ErrNilTransition)
	})

	t.Run("transition receives event data", func(t *testing.T) {
		t.Parallel()

		table := statemachine.NewTable[doc]()
		table.MustHandle("draft", publish, func(ctx context.Context, cur doc, data any) (statemachine.Outcome[doc], error) {
			rev, ok := data.(int)
			require.True(t, ok)
			return statemachine.Outcome[doc]{Next: doc{status: "published", rev: rev}}, nil
		})

		out, err := table.Fire(context.Background(), doc{status: "draft"}, publish, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, out.Next.rev)
	})
}

func TestRunEffects(t *testing.T) {
	t.Parallel()

	t.Run("runs in order", func(t *testing.T) {
		t.Parallel()

		var order []int
		effects := []statemachine.Effect{
			func(ctx context.Context) error { order = append(order, 1); return nil },
			nil,
			func(ctx context.Context) error { order = append(order, 2); return nil },
		}
		require.NoError(t, statemachine.RunEffects(context.Background(), effects))
		assert.Equal(t, []int{1, 2}, order)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var ran bool
		effects := []statemachine.Effect{
			func(ctx context.Context) error { return boom },
			func(ctx context.Context) error { ran = true; return nil },
		}
		assert.ErrorIs(t, statemachine.RunEffects(context.Background(), effects), boom)
		assert.False(t, ran)
	})
}
