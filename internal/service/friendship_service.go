package service

import (
	"errors"

	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"gorm.io/gorm"
)

// StudentResolver resolves the public ids students type into account rows.
type StudentResolver interface {
	FindByPublicID(publicID int) (*model.Student, error)
	FindByID(id uint) (*model.Student, error)
}

// FriendGraph is the relationship storage the service drives. Accept and
// edge insertion happen inside AcceptRequest as one transaction; the
// service never sees a half-linked state.
type FriendGraph interface {
	CreateRequest(req *model.FriendRequest) error
	HasPendingRequest(senderID, receiverID uint) (bool, error)
	IsFriend(studentID, friendID uint) (bool, error)
	AcceptRequest(senderID, receiverID uint) (*model.Friendship, error)
	PendingRequests(receiverID uint) ([]model.FriendRequest, error)
	Friends(studentID uint) ([]model.Student, error)
}

// FriendshipService mediates the friend-request lifecycle: a pending
// request becomes accepted exactly once, by the receiver, and the accept
// materializes the symmetric friend edge. There is no decline, cancel, or
// unfriend.
type FriendshipService struct {
	Graph    FriendGraph
	Students StudentResolver
}

func NewFriendshipService(graph FriendGraph, students StudentResolver) *FriendshipService {
	return &FriendshipService{Graph: graph, Students: students}
}

// SendRequest creates a pending request from the sender to the student
// behind targetPublicID. Requests in opposite directions are independent:
// a pending B->A does not block A->B here, each is its own row.
func (s *FriendshipService) SendRequest(senderID uint, targetPublicID int) (*model.FriendRequest, error) {
	target, err := s.Students.FindByPublicID(targetPublicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	if target.ID == senderID {
		return nil, util.ErrSelfReference
	}

	isFriend, err := s.Graph.IsFriend(senderID, target.ID)
	if err != nil {
		return nil, err
	}
	if isFriend {
		return nil, util.ErrAlreadyFriends
	}

	pending, err := s.Graph.HasPendingRequest(senderID, target.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, util.ErrDuplicatePending
	}

	req := &model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: target.ID,
		Status:     model.RequestPending,
	}
	if err := s.Graph.CreateRequest(req); err != nil {
		// A concurrent sender won the insert between our check and commit.
		if errors.Is(err, util.ErrDuplicateKey) {
			return nil, util.ErrDuplicatePending
		}
		return nil, err
	}
	return req, nil
}

// AcceptRequest accepts the pending request addressed to the receiver from
// the student behind senderPublicID. Not-found covers every miss: never
// sent, already accepted, or a request the receiver sent themselves.
func (s *FriendshipService) AcceptRequest(receiverID uint, senderPublicID int) (*model.Friendship, error) {
	sender, err := s.Students.FindByPublicID(senderPublicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	return s.Graph.AcceptRequest(sender.ID, receiverID)
}

// PendingRequests lists requests awaiting the student, newest first.
func (s *FriendshipService) PendingRequests(receiverID uint) ([]model.FriendRequest, error) {
	return s.Graph.PendingRequests(receiverID)
}

// Friends lists the student's friends as summaries, newest edge first.
func (s *FriendshipService) Friends(studentID uint) ([]model.StudentSummary, error) {
	friends, err := s.Graph.Friends(studentID)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.StudentSummary, 0, len(friends))
	for i := range friends {
		summaries = append(summaries, friends[i].Summary())
	}
	return summaries, nil
}
