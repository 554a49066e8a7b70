package service

import (
	"fmt"
	"testing"

	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeResolver struct {
	byPublicID map[int]*model.Student
	byID       map[uint]*model.Student
}

func (f *fakeResolver) FindByPublicID(publicID int) (*model.Student, error) {
	if s, ok := f.byPublicID[publicID]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResolver) FindByID(id uint) (*model.Student, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeGraph struct {
	pending   map[string]bool
	friends   map[string]bool
	created   []*model.FriendRequest
	createErr error

	accepted      [][2]uint
	acceptResult  *model.Friendship
	acceptErr     error
	pendingRows   []model.FriendRequest
	friendsOf     []model.Student
	friendsOfErr  error
}

func edgeKey(a, b uint) string { return fmt.Sprintf("%d-%d", a, b) }

func (f *fakeGraph) CreateRequest(req *model.FriendRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, req)
	if f.pending == nil {
		f.pending = make(map[string]bool)
	}
	f.pending[edgeKey(req.SenderID, req.ReceiverID)] = true
	return nil
}

func (f *fakeGraph) HasPendingRequest(senderID, receiverID uint) (bool, error) {
	return f.pending[edgeKey(senderID, receiverID)], nil
}

func (f *fakeGraph) IsFriend(studentID, friendID uint) (bool, error) {
	return f.friends[edgeKey(studentID, friendID)] || f.friends[edgeKey(friendID, studentID)], nil
}

func (f *fakeGraph) AcceptRequest(senderID, receiverID uint) (*model.Friendship, error) {
	f.accepted = append(f.accepted, [2]uint{senderID, receiverID})
	return f.acceptResult, f.acceptErr
}

func (f *fakeGraph) PendingRequests(receiverID uint) ([]model.FriendRequest, error) {
	return f.pendingRows, nil
}

func (f *fakeGraph) Friends(studentID uint) ([]model.Student, error) {
	return f.friendsOf, f.friendsOfErr
}

func studentWith(id uint, publicID int, name string) *model.Student {
	return &model.Student{
		BaseModel: model.BaseModel{ID: id},
		Name:      name,
		PublicID:  &publicID,
	}
}

func newFriendshipFixture() (*FriendshipService, *fakeGraph) {
	alice := studentWith(1, 11111, "Alice")
	bob := studentWith(2, 22222, "Bob")
	resolver := &fakeResolver{
		byPublicID: map[int]*model.Student{11111: alice, 22222: bob},
		byID:       map[uint]*model.Student{1: alice, 2: bob},
	}
	graph := &fakeGraph{}
	return NewFriendshipService(graph, resolver), graph
}

func TestSendRequest_CreatesPending(t *testing.T) {
	t.Parallel()

	svc, graph := newFriendshipFixture()

	req, err := svc.SendRequest(1, 22222)
	require.NoError(t, err)
	assert.Equal(t, uint(1), req.SenderID)
	assert.Equal(t, uint(2), req.ReceiverID)
	assert.Equal(t, model.RequestPending, req.Status)
	require.Len(t, graph.created, 1)
}

func TestSendRequest_UnknownTarget(t *testing.T) {
	t.Parallel()

	svc, _ := newFriendshipFixture()

	_, err := svc.SendRequest(1, 99999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSendRequest_SelfReference(t *testing.T) {
	t.Parallel()

	svc, _ := newFriendshipFixture()

	_, err := svc.SendRequest(1, 11111)
	assert.ErrorIs(t, err, util.ErrSelfReference)
}

func TestSendRequest_AlreadyFriends(t *testing.T) {
	t.Parallel()

	svc, graph := newFriendshipFixture()
	graph.friends = map[string]bool{edgeKey(2, 1): true}

	_, err := svc.SendRequest(1, 22222)
	assert.ErrorIs(t, err, util.ErrAlreadyFriends)
}

func TestSendRequest_DuplicatePending(t *testing.T) {
	t.Parallel()

	svc, _ := newFriendshipFixture()

	_, err := svc.SendRequest(1, 22222)
	require.NoError(t, err)

	_, err = svc.SendRequest(1, 22222)
	assert.ErrorIs(t, err, util.ErrDuplicatePending)
}

func TestSendRequest_OppositeDirectionsIndependent(t *testing.T) {
	t.Parallel()

	svc, graph := newFriendshipFixture()

	_, err := svc.SendRequest(1, 22222)
	require.NoError(t, err)

	_, err = svc.SendRequest(2, 11111)
	require.NoError(t, err)
	assert.Len(t, graph.created, 2)
}

func TestSendRequest_LostInsertRace(t *testing.T) {
	t.Parallel()

	svc, graph := newFriendshipFixture()
	graph.createErr = util.ErrDuplicateKey

	_, err := svc.SendRequest(1, 22222)
	assert.ErrorIs(t, err, util.ErrDuplicatePending)
}

func TestAcceptRequest_ResolvesSenderAndDelegates(t *testing.T) {
	t.Parallel()

	svc, graph := newFriendshipFixture()
	graph.acceptResult = &model.Friendship{StudentID: 1, FriendID: 2}

	edge, err := svc.AcceptRequest(2, 11111)
	require.NoError(t, err)
	assert.Equal(t, uint(1), edge.StudentID)
	require.Len(t, graph.accepted, 1)
	assert.Equal(t, [2]uint{1, 2}, graph.accepted[0])
}

func TestAcceptRequest_UnknownSender(t *testing.T) {
	t.Parallel()

	svc, _ := newFriendshipFixture()

	_, err := svc.AcceptRequest(2, 99999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestAcceptRequest_NoPendingRequest(t *testing.T) {
	t.Parallel()

	svc, graph := newFriendshipFixture()
	graph.acceptErr = util.ErrNotFound

	_, err := svc.AcceptRequest(2, 11111)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestFriends_ReturnsSummaries(t *testing.T) {
	t.Parallel()

	svc, graph := newFriendshipFixture()
	graph.friendsOf = []model.Student{
		*studentWith(2, 22222, "Bob"),
		*studentWith(3, 33333, "Carol"),
	}

	summaries, err := svc.Friends(1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Bob", summaries[0].Name)
	assert.Equal(t, 22222, summaries[0].PublicID)
	assert.Equal(t, "Carol", summaries[1].Name)
}
