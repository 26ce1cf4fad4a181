package conductor

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/platform/heat"
	"github.com/imamik/baystack/internal/util/ptr"
)

func waitFor(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("operation did not finish")
		return nil
	}
}

func TestServiceCreateBay(t *testing.T) {
	t.Parallel()

	e := newEnv(t, kubernetesTemplate())
	e.heat.CreateStackFunc = func(context.Context, heat.CreateOpts) (string, error) {
		return testStackID, nil
	}
	e.heat.GetStackFunc = heat.StackSequence(stack(bay.StatusCreateComplete))
	svc := NewService(context.Background(), e.handler, e.store)

	created, done, err := svc.CreateBay(context.Background(), &bay.Bay{Name: "bay1", BayModelID: testTemplateID}, ptr.Int(0))
	require.NoError(t, err)
	assert.NotEmpty(t, created.UUID)
	assert.Equal(t, bay.StatusCreateInProgress, created.Status)
	assert.Equal(t, 1, *created.NodeCount)

	require.NoError(t, waitFor(t, done))
	svc.Wait()

	stored, err := e.store.GetBay(context.Background(), created.UUID)
	require.NoError(t, err)
	assert.Equal(t, bay.StatusCreateComplete, stored.Status)
	assert.Empty(t, svc.Active(created.UUID))
	require.Len(t, e.heat.CreateCalls, 1)
	assert.Nil(t, e.heat.CreateCalls[0].TimeoutMinutes)
}

func TestServiceCreateBay_Invalid(t *testing.T) {
	t.Parallel()

	e := newEnv(t, kubernetesTemplate())
	svc := NewService(context.Background(), e.handler, e.store)

	_, _, err := svc.CreateBay(context.Background(), &bay.Bay{Name: "bay1", BayModelID: "missing"}, nil)
	require.ErrorIs(t, err, bay.ErrInvalidParameter)

	_, _, err = svc.CreateBay(context.Background(), &bay.Bay{BayModelID: testTemplateID}, nil)
	require.ErrorIs(t, err, bay.ErrInvalidParameter)

	_, _, err = svc.CreateBay(context.Background(), &bay.Bay{Name: "bay1", BayModelID: testTemplateID}, ptr.Int(-1))
	require.ErrorIs(t, err, bay.ErrInvalidParameter)

	bays, err := e.store.ListBays(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bays)
}

func TestServiceRejectsConcurrentOperation(t *testing.T) {
	t.Parallel()

	b := testBay()
	b.Status = bay.StatusCreateComplete
	e := newEnv(t, kubernetesTemplate(), b)

	release := make(chan struct{})
	e.heat.GetStackFunc = func(ctx context.Context, _ string) (*heat.Stack, error) {
		<-release
		return stack(bay.StatusUpdateComplete), nil
	}
	svc := NewService(context.Background(), e.handler, e.store)

	done, err := svc.ScaleBay(context.Background(), testBayID, 3)
	require.NoError(t, err)
	assert.Equal(t, "update", svc.Active(testBayID))

	_, err = svc.DeleteBay(context.Background(), testBayID)
	require.ErrorIs(t, err, bay.ErrConflict)
	_, err = svc.ScaleBay(context.Background(), testBayID, 4)
	require.ErrorIs(t, err, bay.ErrConflict)

	close(release)
	require.NoError(t, waitFor(t, done))
	assert.Empty(t, svc.Active(testBayID))

	done, err = svc.DeleteBay(context.Background(), testBayID)
	require.NoError(t, err)
	require.NoError(t, waitFor(t, done))
}

func TestServiceScaleBay_Validation(t *testing.T) {
	t.Parallel()

	e := newEnv(t, kubernetesTemplate())
	svc := NewService(context.Background(), e.handler, e.store)

	_, err := svc.ScaleBay(context.Background(), testBayID, 0)
	require.ErrorIs(t, err, bay.ErrInvalidParameter)
	_, err = svc.ScaleBay(context.Background(), testBayID, 2)
	require.ErrorIs(t, err, bay.ErrNotFound)
}

func TestServiceResume(t *testing.T) {
	t.Parallel()

	inProgress := testBay()
	settled := testBay()
	settled.UUID = "settled"
	settled.Status = bay.StatusCreateComplete
	e := newEnv(t, kubernetesTemplate(), inProgress, settled)
	e.heat.GetStackFunc = heat.StackSequence(stack(bay.StatusCreateComplete))
	svc := NewService(context.Background(), e.handler, e.store)

	n, err := svc.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	svc.Wait()

	stored, err := e.store.GetBay(context.Background(), testBayID)
	require.NoError(t, err)
	assert.Equal(t, bay.StatusCreateComplete, stored.Status)
	assert.Equal(t, []string{testStackID}, e.heat.GetCalls)
}

// logLines collects formatted log lines.
type logLines struct {
	mu    sync.Mutex
	lines []string
}

func (l *logLines) add(prefix, args string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, prefix+" "+args)
}

func (l *logLines) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func TestServiceLogsBayKeyOnce(t *testing.T) {
	t.Parallel()

	captured := &logLines{}
	ctx := log.IntoContext(context.Background(), funcr.New(captured.add, funcr.Options{Verbosity: 1}))

	e := newEnv(t, kubernetesTemplate())
	e.heat.CreateStackFunc = func(context.Context, heat.CreateOpts) (string, error) {
		return testStackID, nil
	}
	e.heat.GetStackFunc = heat.StackSequence(
		stack(bay.StatusCreateComplete),
		stack(bay.StatusCreateComplete),
		stack(bay.StatusDeleteComplete),
	)
	svc := NewService(ctx, e.handler, e.store)

	created, done, err := svc.CreateBay(ctx, &bay.Bay{Name: "bay1", BayModelID: testTemplateID}, ptr.Int(0))
	require.NoError(t, err)
	require.NoError(t, waitFor(t, done))

	done, err = svc.DeleteBay(ctx, created.UUID)
	require.NoError(t, err)
	require.NoError(t, waitFor(t, done))
	svc.Wait()

	lines := captured.all()
	require.NotEmpty(t, lines)
	for _, msg := range []string{"submitted stack create", "submitted stack delete", "bay deleted", "bay operation finished"} {
		found := false
		for _, line := range lines {
			if !strings.Contains(line, `"msg"="`+msg+`"`) {
				continue
			}
			found = true
			assert.Equal(t, 1, strings.Count(line, `"bay"="`+created.UUID+`"`), line)
		}
		assert.True(t, found, "no %q line logged", msg)
	}
	for _, line := range lines {
		assert.LessOrEqual(t, strings.Count(line, `"bay"=`), 1, line)
	}
}
