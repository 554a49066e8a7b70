package service

import (
	"errors"
	"testing"

	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	taken      map[int]bool
	allTaken   bool
	existsErr  error
	assignErrs []error
	assigned   map[uint]int
	assigns    int
}

func (f *fakeDirectory) PublicIDExists(publicID int) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.allTaken {
		return true, nil
	}
	return f.taken[publicID], nil
}

func (f *fakeDirectory) AssignPublicID(studentID uint, publicID int) error {
	call := f.assigns
	f.assigns++
	if call < len(f.assignErrs) && f.assignErrs[call] != nil {
		return f.assignErrs[call]
	}
	if f.assigned == nil {
		f.assigned = make(map[uint]int)
	}
	f.assigned[studentID] = publicID
	return nil
}

func TestAllocate_ReturnsFiveDigitID(t *testing.T) {
	t.Parallel()

	s := NewIdentityService(&fakeDirectory{})

	for i := 0; i < 50; i++ {
		id, err := s.Allocate()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, id, util.PublicIDMin)
		assert.LessOrEqual(t, id, util.PublicIDMax)
	}
}

func TestAllocate_ExhaustedAfterBoundedRetries(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{allTaken: true}
	s := NewIdentityService(dir)
	s.Attempts = 3

	_, err := s.Allocate()
	assert.ErrorIs(t, err, util.ErrAllocationExhausted)
}

func TestAllocate_ProbeErrorPropagates(t *testing.T) {
	t.Parallel()

	probeErr := errors.New("connection refused")
	s := NewIdentityService(&fakeDirectory{existsErr: probeErr})

	_, err := s.Allocate()
	assert.ErrorIs(t, err, probeErr)
}

func TestAllocateAndAssign_CommitsDrawnID(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{}
	s := NewIdentityService(dir)

	id, err := s.AllocateAndAssign(42)
	require.NoError(t, err)
	assert.Equal(t, id, dir.assigned[42])
	assert.GreaterOrEqual(t, id, util.PublicIDMin)
	assert.LessOrEqual(t, id, util.PublicIDMax)
}

func TestAllocateAndAssign_RedrawsAfterLostRace(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{assignErrs: []error{util.ErrDuplicateKey, nil}}
	s := NewIdentityService(dir)

	id, err := s.AllocateAndAssign(42)
	require.NoError(t, err)
	assert.Equal(t, id, dir.assigned[42])
	assert.Equal(t, 2, dir.assigns)
}

func TestAllocateAndAssign_OtherCommitErrorPropagates(t *testing.T) {
	t.Parallel()

	commitErr := errors.New("deadlock")
	dir := &fakeDirectory{assignErrs: []error{commitErr}}
	s := NewIdentityService(dir)

	_, err := s.AllocateAndAssign(42)
	assert.ErrorIs(t, err, commitErr)
	assert.Equal(t, 1, dir.assigns)
}
