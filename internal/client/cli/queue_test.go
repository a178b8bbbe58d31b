package cli

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/keepsake/internal/client/queue"
	"github.com/iudanet/keepsake/internal/client/sync"
)

func TestCli_runQueue(t *testing.T) {
	engine := &EngineMock{
		ItemsFunc: func(ctx context.Context, queueName string) ([]sync.ItemInfo, error) {
			if queueName == sync.QueueUploads {
				return nil, nil
			}
			return []sync.ItemInfo{{
				ID:               "01HQ01",
				Kind:             "add_comment",
				Status:           queue.StatusDead,
				Attempts:         1,
				EnqueuedAt:       testNow,
				TargetCollection: "users/alice/memories",
				TargetID:         "m1",
				LastError:        "remote rejected: 403",
			}}, nil
		},
	}
	cli, _, out := newTestCli(engine, nil)

	require.NoError(t, cli.runQueue(context.Background(), nil))

	require.Len(t, engine.ItemsCalls(), 2)
	output := out.String()
	assert.Contains(t, output, "=== uploads (0) ===")
	assert.Contains(t, output, "Queue is empty.")
	assert.Contains(t, output, "=== actions (1) ===")
	assert.Contains(t, output, "01HQ01  add_comment   dead      attempts=1")
	assert.Contains(t, output, "target: users/alice/memories/m1")
	assert.Contains(t, output, "last error: remote rejected: 403")
}

func TestCli_runQueue_Single(t *testing.T) {
	engine := &EngineMock{
		ItemsFunc: func(ctx context.Context, queueName string) ([]sync.ItemInfo, error) {
			return nil, fmt.Errorf("%w: %q", sync.ErrUnknownQueue, queueName)
		},
	}
	cli, _, _ := newTestCli(engine, nil)

	err := cli.runQueue(context.Background(), []string{"mail"})
	assert.ErrorIs(t, err, sync.ErrUnknownQueue)
	assert.Equal(t, "mail", engine.ItemsCalls()[0].QueueName)

	assert.ErrorContains(t, cli.runQueue(context.Background(), []string{"a", "b"}), "too many arguments")
}

func TestCli_runDiscard(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		discardErr error
		wantErr    string
		wantOut    string
	}{
		{name: "discarded", args: []string{"uploads", "01HQ01"}, wantOut: "Item 01HQ01 discarded from uploads"},
		{name: "not found", args: []string{"uploads", "nope"}, discardErr: queue.ErrItemNotFound, wantErr: "item nope not found in uploads"},
		{name: "in flight", args: []string{"actions", "01HQ01"}, discardErr: sync.ErrItemInFlight, wantErr: "failed to discard item"},
		{name: "missing id", args: []string{"uploads"}, wantErr: "missing arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &EngineMock{
				DiscardFunc: func(ctx context.Context, queueName string, id string) error {
					return tt.discardErr
				},
			}
			cli, _, out := newTestCli(engine, nil)

			err := cli.runDiscard(context.Background(), tt.args)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestCli_runRequeue(t *testing.T) {
	tests := []struct {
		name       string
		requeueErr error
		wantErr    string
	}{
		{name: "requeued"},
		{name: "not found", requeueErr: queue.ErrItemNotFound, wantErr: "not found in actions"},
		{name: "pending item", requeueErr: fmt.Errorf("%w: from pending to pending", queue.ErrInvalidTransition), wantErr: "neither failed nor dead"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &EngineMock{
				RequeueFunc: func(ctx context.Context, queueName string, id string) error {
					return tt.requeueErr
				},
			}
			cli, _, out := newTestCli(engine, nil)

			err := cli.runRequeue(context.Background(), []string{"actions", "01HQ01"})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), "returned to pending in actions")
		})
	}
}
