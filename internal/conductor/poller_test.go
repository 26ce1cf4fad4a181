package conductor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/platform/heat"
	"github.com/imamik/baystack/internal/util/ptr"
)

func newTestPoller(t *testing.T, e *env, b *bay.Bay) *Poller {
	t.Helper()
	p, err := NewPoller(e.heat, e.store, b, kubernetesTemplate(), testConfig().Heat.MaxAttempts)
	require.NoError(t, err)
	return p
}

func TestPoll_CreateInProgress(t *testing.T) {
	t.Parallel()

	b := testBay()
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = heat.StackSequence(stack(bay.StatusCreateInProgress))

	p := newTestPoller(t, e, b)
	outcome, err := p.Poll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeContinue, outcome)
	assert.Equal(t, 1, p.Attempts())
	saves, destroys := e.store.counts()
	assert.Zero(t, saves)
	assert.Zero(t, destroys)
}

func TestPoll_InProgressStatusChangeIsSaved(t *testing.T) {
	t.Parallel()

	b := testBay()
	b.Status = bay.StatusCreateComplete
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = heat.StackSequence(stack(bay.StatusUpdateInProgress))

	p := newTestPoller(t, e, b)
	outcome, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, outcome)

	saves, _ := e.store.counts()
	assert.Equal(t, 1, saves)
	stored, err := e.store.GetBay(context.Background(), testBayID)
	require.NoError(t, err)
	assert.Equal(t, bay.StatusUpdateInProgress, stored.Status)
}

func TestPoll_CreateFailed(t *testing.T) {
	t.Parallel()

	b := testBay()
	e := newEnv(t, kubernetesTemplate(), b)
	failed := stack(bay.StatusCreateFailed)
	failed.StatusReason = "Resource CREATE failed: quota exceeded"
	e.heat.GetStackFunc = heat.StackSequence(failed)

	p := newTestPoller(t, e, b)
	outcome, err := p.Poll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, outcome)
	saves, destroys := e.store.counts()
	assert.Equal(t, 1, saves)
	assert.Zero(t, destroys)

	stored, err := e.store.GetBay(context.Background(), testBayID)
	require.NoError(t, err)
	assert.Equal(t, bay.StatusCreateFailed, stored.Status)
	assert.Equal(t, "Resource CREATE failed: quota exceeded", stored.StatusReason)
}

func TestPoll_CreateCompleteCopiesOutputs(t *testing.T) {
	t.Parallel()

	b := testBay()
	e := newEnv(t, kubernetesTemplate(), b)
	done := stack(bay.StatusCreateComplete)
	done.Outputs = map[string]any{
		"kube_master":           "172.24.4.5",
		"kube_minions_external": []any{"172.24.4.6", "172.24.4.7"},
		"unrelated":             "x",
	}
	e.heat.GetStackFunc = heat.StackSequence(done)

	p := newTestPoller(t, e, b)
	outcome, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDone, outcome)
	assert.False(t, p.Exhausted())

	stored, err := e.store.GetBay(context.Background(), testBayID)
	require.NoError(t, err)
	assert.Equal(t, bay.StatusCreateComplete, stored.Status)
	assert.Equal(t, "172.24.4.5", stored.APIAddress)
	assert.Equal(t, []string{"172.24.4.6", "172.24.4.7"}, stored.NodeAddresses)
}

func TestPoll_CompleteWithoutOutputsKeepsAddresses(t *testing.T) {
	t.Parallel()

	b := testBay()
	b.APIAddress = "10.0.0.1"
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = heat.StackSequence(stack(bay.StatusUpdateComplete))

	p := newTestPoller(t, e, b)
	outcome, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDone, outcome)
	assert.Equal(t, "10.0.0.1", p.Bay().APIAddress)
}

func TestPoll_DeleteComplete(t *testing.T) {
	t.Parallel()

	b := testBay()
	b.Status = bay.StatusDeleteInProgress
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = heat.StackSequence(stack(bay.StatusDeleteComplete))

	p := newTestPoller(t, e, b)
	outcome, err := p.Poll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeDone, outcome)
	assert.True(t, p.Destroyed())
	saves, destroys := e.store.counts()
	assert.Zero(t, saves)
	assert.Equal(t, 1, destroys)
	assert.Equal(t, bay.StatusDeleteInProgress, p.Bay().Status)

	_, err = e.store.GetBay(context.Background(), testBayID)
	require.ErrorIs(t, err, bay.ErrNotFound)
}

func TestPoll_DeleteFailed(t *testing.T) {
	t.Parallel()

	b := testBay()
	b.Status = bay.StatusDeleteInProgress
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = heat.StackSequence(stack(bay.StatusDeleteFailed))

	p := newTestPoller(t, e, b)
	outcome, err := p.Poll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, outcome)
	saves, destroys := e.store.counts()
	assert.Equal(t, 1, saves)
	assert.Zero(t, destroys)
}

func TestPoll_NotFoundWhileDeleting(t *testing.T) {
	t.Parallel()

	b := testBay()
	b.Status = bay.StatusDeleteInProgress
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = func(context.Context, string) (*heat.Stack, error) {
		return nil, fmt.Errorf("failed to get stack: %w", heat.ErrNotFound)
	}

	p := newTestPoller(t, e, b)
	outcome, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDone, outcome)
	_, destroys := e.store.counts()
	assert.Equal(t, 1, destroys)
}

func TestPoll_NotFoundWhileCreatingIsAnError(t *testing.T) {
	t.Parallel()

	b := testBay()
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = func(context.Context, string) (*heat.Stack, error) {
		return nil, heat.ErrNotFound
	}

	p := newTestPoller(t, e, b)
	_, err := p.Poll(context.Background())
	require.ErrorIs(t, err, heat.ErrNotFound)
	_, destroys := e.store.counts()
	assert.Zero(t, destroys)
}

func TestPoll_UnknownStatus(t *testing.T) {
	t.Parallel()

	b := testBay()
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = heat.StackSequence(stack("WEIRD"))

	p := newTestPoller(t, e, b)
	_, err := p.Poll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown status "WEIRD"`)
}

func TestPoll_AttemptBound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    bay.Status
		timeout   *int
		want      Outcome
		exhausted bool
	}{
		{"delete without timeout stops", bay.StatusDeleteInProgress, nil, OutcomeDone, true},
		{"delete with timeout continues", bay.StatusDeleteInProgress, ptr.Int(60), OutcomeContinue, false},
		{"create without timeout stops", bay.StatusCreateInProgress, nil, OutcomeDone, true},
		{"update with timeout continues", bay.StatusUpdateInProgress, ptr.Int(60), OutcomeContinue, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := testBay()
			b.Status = tt.status
			e := newEnv(t, kubernetesTemplate(), b)
			s := stack(tt.status)
			s.TimeoutMinutes = tt.timeout
			e.heat.GetStackFunc = heat.StackSequence(s)

			p := newTestPoller(t, e, b)
			p.attempts = p.maxAttempts

			outcome, err := p.Poll(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
			assert.Equal(t, tt.exhausted, p.Exhausted())

			saves, destroys := e.store.counts()
			assert.Zero(t, saves, "status unchanged, nothing to save")
			assert.Zero(t, destroys)
			stored, err := e.store.GetBay(context.Background(), testBayID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, stored.Status)
		})
	}
}

func TestPollerRun_UntilComplete(t *testing.T) {
	t.Parallel()

	b := testBay()
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = heat.StackSequence(
		stack(bay.StatusCreateInProgress),
		stack(bay.StatusCreateInProgress),
		stack(bay.StatusCreateComplete),
	)

	p := newTestPoller(t, e, b)
	outcome, err := p.Run(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDone, outcome)
	assert.Equal(t, 3, p.Attempts())
}

func TestPollerRun_ExhaustsWithoutTimeout(t *testing.T) {
	t.Parallel()

	b := testBay()
	e := newEnv(t, kubernetesTemplate(), b)
	e.heat.GetStackFunc = heat.StackSequence(stack(bay.StatusCreateInProgress))

	p := newTestPoller(t, e, b)
	outcome, err := p.Run(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDone, outcome)
	assert.True(t, p.Exhausted())
	assert.Equal(t, testConfig().Heat.MaxAttempts+1, p.Attempts())
}

func TestPollerRun_Cancelled(t *testing.T) {
	t.Parallel()

	b := testBay()
	e := newEnv(t, kubernetesTemplate(), b)
	s := stack(bay.StatusCreateInProgress)
	s.TimeoutMinutes = ptr.Int(60)
	e.heat.GetStackFunc = heat.StackSequence(s)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := newTestPoller(t, e, b)
	_, err := p.Run(ctx, time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "continue", OutcomeContinue.String())
	assert.Equal(t, "done", OutcomeDone.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}
