package service

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/Harini-0111/electronics-astra-user/pkg/monitoring"
)

// AccountDirectory is the slice of the account store the allocator needs:
// a read-only existence probe and the commit of a chosen id. The commit
// must report util.ErrDuplicateKey when a concurrent caller took the same
// id first; the unique index behind AssignPublicID is the only exclusivity
// guarantee, the probe is just a cheap pre-filter.
type AccountDirectory interface {
	PublicIDExists(publicID int) (bool, error)
	AssignPublicID(studentID uint, publicID int) error
}

// IdentityService hands out the public student ids: 5-digit numbers drawn
// from a cryptographic source so they cannot be enumerated, unique across
// all accounts. The 90k slot namespace is a known scaling limit;
// util.ErrAllocationExhausted after the bounded retries is the signal that
// it is filling up.
type IdentityService struct {
	Accounts AccountDirectory

	// Attempts bounds both the draw loop and the commit retries. The
	// original re-invoked the whole registration on collision; a counted
	// loop replaces that unbounded recursion.
	Attempts int
}

func NewIdentityService(accounts AccountDirectory) *IdentityService {
	return &IdentityService{Accounts: accounts, Attempts: 10}
}

// Allocate draws a candidate id not currently in use. Read-only: the
// caller still has to commit it with AssignPublicID and handle losing the
// race.
func (s *IdentityService) Allocate() (int, error) {
	for i := 0; i < s.Attempts; i++ {
		candidate, err := randomPublicID()
		if err != nil {
			return 0, err
		}
		taken, err := s.Accounts.PublicIDExists(candidate)
		if err != nil {
			return 0, err
		}
		if !taken {
			return candidate, nil
		}
		monitoring.AllocationRetries.Inc()
	}
	return 0, util.ErrAllocationExhausted
}

// AllocateAndAssign allocates an id and commits it to the student,
// redrawing when the commit loses a concurrent race.
func (s *IdentityService) AllocateAndAssign(studentID uint) (int, error) {
	for i := 0; i < s.Attempts; i++ {
		candidate, err := s.Allocate()
		if err != nil {
			return 0, err
		}
		err = s.Accounts.AssignPublicID(studentID, candidate)
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, util.ErrDuplicateKey) {
			monitoring.AllocationRetries.Inc()
			continue
		}
		return 0, err
	}
	return 0, util.ErrAllocationExhausted
}

func randomPublicID() (int, error) {
	span := big.NewInt(int64(util.PublicIDMax - util.PublicIDMin + 1))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, err
	}
	return util.PublicIDMin + int(n.Int64()), nil
}
