package service

import (
	"errors"
	"time"

	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/Harini-0111/electronics-astra-user/internal/repository"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"gorm.io/gorm"
)

// StudentService covers the profile surface: view, partial update,
// account deletion, and the friend-only public profile view.
type StudentService struct {
	Students *repository.StudentRepository
	Friends  *repository.FriendshipRepository
}

func NewStudentService(students *repository.StudentRepository, friends *repository.FriendshipRepository) *StudentService {
	return &StudentService{Students: students, Friends: friends}
}

func (s *StudentService) GetProfile(id uint) (*model.Student, error) {
	student, err := s.Students.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

// UpdateProfileInput carries the updatable profile fields; nil means
// leave the stored value alone.
type UpdateProfileInput struct {
	Name        *string
	Phone       *string
	Address     *string
	DateOfBirth *time.Time
}

func (s *StudentService) UpdateProfile(id uint, in UpdateProfileInput) (*model.Student, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.DateOfBirth != nil {
		updates["date_of_birth"] = *in.DateOfBirth
	}

	if err := s.Students.UpdateProfile(id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return s.GetProfile(id)
}

// DeleteAccount removes the student plus all relationship rows in one
// transaction, then drops the stale friend-cache entries for everyone who
// listed them.
func (s *StudentService) DeleteAccount(id uint) error {
	friendIDs, err := s.Friends.FriendIDs(id)
	if err != nil {
		return err
	}

	if err := s.Students.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}

	s.Friends.InvalidateFriendCache(append(friendIDs, id)...)
	return nil
}

// FriendProfile shows a friend's public profile by public id. Only
// established friends may look; everyone else gets Forbidden, including
// pending requesters.
func (s *StudentService) FriendProfile(requesterID uint, targetPublicID int) (*model.StudentSummary, error) {
	target, err := s.Students.FindByPublicID(targetPublicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	if target.ID != requesterID {
		friendIDs, err := s.Friends.FriendIDsCached(requesterID)
		if err != nil {
			return nil, err
		}
		isFriend := false
		for _, id := range friendIDs {
			if id == target.ID {
				isFriend = true
				break
			}
		}
		if !isFriend {
			return nil, util.ErrForbidden
		}
	}

	summary := target.Summary()
	return &summary, nil
}
