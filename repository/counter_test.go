package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prezm/poc-orchestrator/infra"
)

// fakeSSM is an in-memory stand-in for the SSM API, shared by the repository
// tests in this package.
type fakeSSM struct {
	params     map[string]string
	paramTypes map[string]types.ParameterType
	getErr     error
	putErr     error
	putCalls   []string
}

func newFakeSSM() *fakeSSM {
	return &fakeSSM{
		params:     map[string]string{},
		paramTypes: map[string]types.ParameterType{},
	}
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	value, ok := f.params[*in.Name]
	if !ok {
		return nil, &types.ParameterNotFound{}
	}
	return &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: &value},
	}, nil
}

func (f *fakeSSM) PutParameter(_ context.Context, in *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.params[*in.Name] = *in.Value
	f.paramTypes[*in.Name] = in.Type
	f.putCalls = append(f.putCalls, *in.Name)
	return &ssm.PutParameterOutput{}, nil
}

func newCounterRepo(fake *fakeSSM) *CounterRepository {
	return NewCounterRepository(&infra.SSMClient{API: fake}, "/poc/counter")
}

func TestNextIDCounterAbsent(t *testing.T) {
	repo := newCounterRepo(newFakeSSM())

	envID, next, err := repo.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "poc1", envID)
	assert.Equal(t, 1, next)
}

func TestNextIDCounterPresent(t *testing.T) {
	fake := newFakeSSM()
	fake.params["/poc/counter"] = "41"
	repo := newCounterRepo(fake)

	envID, next, err := repo.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "poc42", envID)
	assert.Equal(t, 42, next)
}

func TestNextIDDoesNotWrite(t *testing.T) {
	fake := newFakeSSM()
	repo := newCounterRepo(fake)

	_, _, err := repo.NextID(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fake.putCalls)
}

func TestNextIDCorruptCounter(t *testing.T) {
	fake := newFakeSSM()
	fake.params["/poc/counter"] = "not-a-number"
	repo := newCounterRepo(fake)

	_, _, err := repo.NextID(context.Background())
	assert.Error(t, err)
}

func TestNextIDReadFailure(t *testing.T) {
	fake := newFakeSSM()
	fake.getErr = errors.New("ssm unavailable")
	repo := newCounterRepo(fake)

	_, _, err := repo.NextID(context.Background())
	assert.Error(t, err)
}

func TestCommitPersistsCounter(t *testing.T) {
	fake := newFakeSSM()
	repo := newCounterRepo(fake)

	require.NoError(t, repo.Commit(context.Background(), 1))
	assert.Equal(t, "1", fake.params["/poc/counter"])
}

func TestCommitConflict(t *testing.T) {
	fake := newFakeSSM()
	fake.params["/poc/counter"] = "5"
	repo := newCounterRepo(fake)

	err := repo.Commit(context.Background(), 5)
	assert.ErrorIs(t, err, ErrCounterConflict)
	// The already-advanced value must not be overwritten.
	assert.Equal(t, "5", fake.params["/poc/counter"])
	assert.Empty(t, fake.putCalls)
}

func TestCommitCorruptCounter(t *testing.T) {
	fake := newFakeSSM()
	fake.params["/poc/counter"] = "not-a-number"
	repo := newCounterRepo(fake)

	err := repo.Commit(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCounterConflict)
	// A corrupt value is never clobbered.
	assert.Equal(t, "not-a-number", fake.params["/poc/counter"])
	assert.Empty(t, fake.putCalls)
}

func TestSequentialAllocation(t *testing.T) {
	fake := newFakeSSM()
	repo := newCounterRepo(fake)
	ctx := context.Background()

	envID, next, err := repo.NextID(ctx)
	require.NoError(t, err)
	require.Equal(t, "poc1", envID)
	require.NoError(t, repo.Commit(ctx, next))

	envID, next, err = repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "poc2", envID)
	require.NoError(t, repo.Commit(ctx, next))
	assert.Equal(t, "2", fake.params["/poc/counter"])
}
