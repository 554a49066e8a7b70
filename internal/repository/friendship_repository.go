package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const friendCacheKey = "portal:relation:friends:%d"

type FriendshipRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewFriendshipRepository(db *gorm.DB, rdb *redis.Client) *FriendshipRepository {
	return &FriendshipRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// CreateRequest inserts a pending request. The unique index on
// (sender, receiver, status) is the real duplicate guard; a losing
// concurrent insert comes back as util.ErrDuplicateKey.
func (r *FriendshipRepository) CreateRequest(req *model.FriendRequest) error {
	return translateDuplicate(r.DB.Create(req).Error)
}

func (r *FriendshipRepository) HasPendingRequest(senderID, receiverID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ? AND status = ?",
			senderID, receiverID, model.RequestPending).
		Count(&count).Error
	return count > 0, err
}

func (r *FriendshipRepository) IsFriend(studentID, friendID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Friendship{}).
		Where("student_id = ? AND friend_id = ?", studentID, friendID).
		Count(&count).Error
	return count > 0, err
}

// AcceptRequest marks the pending (sender -> receiver) request accepted
// and inserts both halves of the friend edge, all in one transaction: an
// accepted request with a missing edge is never observable. The status
// update is conditional on pending, so a second accept of the same
// request finds zero rows and reports not-found. Edge insertion tolerates
// a pre-existing edge. The returned edge carries the timestamp the
// transaction actually wrote, or the existing edge's timestamp when the
// insert was skipped.
func (r *FriendshipRepository) AcceptRequest(senderID, receiverID uint) (*model.Friendship, error) {
	edge := &model.Friendship{StudentID: senderID, FriendID: receiverID}
	mirror := &model.Friendship{StudentID: receiverID, FriendID: senderID}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.FriendRequest{}).
			Where("sender_id = ? AND receiver_id = ? AND status = ?",
				senderID, receiverID, model.RequestPending).
			Update("status", model.RequestAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrNotFound
		}

		for _, e := range []*model.Friendship{edge, mirror} {
			if err := tx.Create(e).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// The edge predates this accept; load its real row.
					if err := tx.Where("student_id = ? AND friend_id = ?",
						e.StudentID, e.FriendID).First(e).Error; err != nil {
						return err
					}
					continue
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.InvalidateFriendCache(senderID, receiverID)
	return edge, nil
}

// PendingRequests lists requests awaiting the receiver, newest first.
func (r *FriendshipRepository) PendingRequests(receiverID uint) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := r.DB.Preload("Sender").
		Where("receiver_id = ? AND status = ?", receiverID, model.RequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// Friends lists the student's friends ordered by newest edge first.
func (r *FriendshipRepository) Friends(studentID uint) ([]model.Student, error) {
	var friends []model.Student
	err := r.DB.
		Joins("JOIN friendships ON friendships.friend_id = students.id").
		Where("friendships.student_id = ?", studentID).
		Order("friendships.created_at DESC").
		Find(&friends).Error
	return friends, err
}

func (r *FriendshipRepository) FriendIDs(studentID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Table("friendships").
		Where("student_id = ?", studentID).
		Pluck("friend_id", &ids).Error
	return ids, err
}

// FriendIDsCached reads the friend-id set from redis, falling back to the
// database and repopulating on a miss.
func (r *FriendshipRepository) FriendIDsCached(studentID uint) ([]uint, error) {
	if r.Redis == nil {
		return r.FriendIDs(studentID)
	}

	key := fmt.Sprintf(friendCacheKey, studentID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		var ids []uint
		for _, s := range cached {
			var id uint
			fmt.Sscanf(s, "%d", &id)
			if id > 0 {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	ids, err := r.FriendIDs(studentID)
	if err == nil && len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else if err == nil {
		// Negative entry with a short TTL to absorb repeat misses.
		r.Redis.SAdd(r.ctx, key, 0)
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, err
}

func (r *FriendshipRepository) InvalidateFriendCache(studentIDs ...uint) {
	if r.Redis == nil {
		return
	}
	for _, id := range studentIDs {
		r.Redis.Del(r.ctx, fmt.Sprintf(friendCacheKey, id))
	}
}
