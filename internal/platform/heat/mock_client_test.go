package heat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/baystack/internal/bay"
)

func TestMockClient_RecordsCalls(t *testing.T) {
	t.Parallel()

	m := &MockClient{
		CreateStackFunc: func(context.Context, CreateOpts) (string, error) { return "id", nil },
		DeleteStackFunc: func(context.Context, string) error { return ErrNotFound },
	}

	id, err := m.CreateStack(context.Background(), CreateOpts{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, "id", id)
	require.NoError(t, m.UpdateStack(context.Background(), UpdateOpts{StackID: "id"}))
	s, err := m.GetStack(context.Background(), "id")
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.True(t, IsNotFound(m.DeleteStack(context.Background(), "id")))

	creates, updates, gets, deletes := m.Counts()
	assert.Equal(t, []int{1, 1, 1, 1}, []int{creates, updates, gets, deletes})
}

func TestStackSequence(t *testing.T) {
	t.Parallel()

	next := StackSequence(
		&Stack{Status: bay.StatusCreateInProgress},
		&Stack{Status: bay.StatusCreateComplete},
	)

	var got []bay.Status
	for range 3 {
		s, err := next(context.Background(), "id")
		require.NoError(t, err)
		got = append(got, s.Status)
	}
	assert.Equal(t, []bay.Status{bay.StatusCreateInProgress, bay.StatusCreateComplete, bay.StatusCreateComplete}, got)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.NoError(t, classify("x", nil))
	err := classify("get stack s", errors.New("boom"))
	assert.EqualError(t, err, "failed to get stack s: boom")
	assert.False(t, IsNotFound(err))
	assert.False(t, IsBadRequest(err))
}
