package repository

import (
	"time"

	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return translateDuplicate(r.DB.Create(student).Error)
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, id).Error
	return &student, err
}

func (r *StudentRepository) FindByEmail(email string) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("email = ?", email).First(&student).Error
	return &student, err
}

func (r *StudentRepository) FindByPublicID(publicID int) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("public_id = ?", publicID).First(&student).Error
	return &student, err
}

func (r *StudentRepository) PublicIDExists(publicID int) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Student{}).
		Where("public_id = ?", publicID).
		Count(&count).Error
	return count > 0, err
}

// AssignPublicID commits a candidate public id to a student row. The
// unique index on students.public_id decides races between concurrent
// verifications: the loser gets util.ErrDuplicateKey and redraws.
func (r *StudentRepository) AssignPublicID(studentID uint, publicID int) error {
	err := r.DB.Model(&model.Student{}).
		Where("id = ?", studentID).
		Update("public_id", publicID).Error
	return translateDuplicate(err)
}

// VerifyOTP flips the student to verified in a single conditional update:
// the OTP must match and must not have expired. Zero rows affected means
// the code was wrong, stale, or the email unknown.
func (r *StudentRepository) VerifyOTP(email, otp string) (*model.Student, error) {
	res := r.DB.Model(&model.Student{}).
		Where("email = ? AND otp = ? AND otp_expiry > ?", email, otp, time.Now()).
		Updates(map[string]interface{}{
			"is_verified": true,
			"otp":         "",
			"otp_expiry":  nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, util.ErrInvalidOTP
	}
	return r.FindByEmail(email)
}

func (r *StudentRepository) UpdateOTP(email, otp string, expiry time.Time) error {
	return r.DB.Model(&model.Student{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"otp":        otp,
			"otp_expiry": expiry,
		}).Error
}

// OTPMatches reports whether the stored code matches and is still live,
// without consuming it. The reset form uses this to validate the code
// before the student types a new password.
func (r *StudentRepository) OTPMatches(email, otp string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Student{}).
		Where("email = ? AND otp = ? AND otp <> '' AND otp_expiry > ?", email, otp, time.Now()).
		Count(&count).Error
	return count > 0, err
}

// ResetPassword swaps the password hash and consumes the reset code in a
// single conditional update. Zero rows affected means the code was wrong,
// stale, or the email unknown.
func (r *StudentRepository) ResetPassword(email, otp, hash string) error {
	res := r.DB.Model(&model.Student{}).
		Where("email = ? AND otp = ? AND otp <> '' AND otp_expiry > ?", email, otp, time.Now()).
		Updates(map[string]interface{}{
			"password":   hash,
			"otp":        "",
			"otp_expiry": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrInvalidOTP
	}
	return nil
}

// UpdateProfile applies only the provided fields.
func (r *StudentRepository) UpdateProfile(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.DB.Model(&model.Student{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *StudentRepository) UpdatePassword(id uint, hash string) error {
	return r.DB.Model(&model.Student{}).
		Where("id = ?", id).
		Update("password", hash).Error
}

func (r *StudentRepository) UpdateLastSeen(id uint) error {
	return r.DB.Model(&model.Student{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// Delete removes the account and everything hanging off it in one
// transaction: friend requests in either direction, both halves of every
// friend edge, and share grants the student gave or received. The MySQL
// schema carries no ON DELETE CASCADE, so the cleanup is explicit here.
// Library files stay behind under the departed owner's id.
func (r *StudentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var student model.Student
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}

		if err := tx.Where("sender_id = ? OR receiver_id = ?", id, id).
			Delete(&model.FriendRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ? OR friend_id = ?", id, id).
			Delete(&model.Friendship{}).Error; err != nil {
			return err
		}
		if student.PublicID != nil {
			if err := tx.Where("shared_by_public_id = ? OR shared_with_public_id = ?",
				*student.PublicID, *student.PublicID).
				Delete(&model.FileShare{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Student{}, id).Error
	})
}
