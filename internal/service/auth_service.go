package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Harini-0111/electronics-astra-user/internal/config"
	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/Harini-0111/electronics-astra-user/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StudentAccounts is the account storage the auth flow needs.
type StudentAccounts interface {
	Create(student *model.Student) error
	FindByID(id uint) (*model.Student, error)
	FindByEmail(email string) (*model.Student, error)
	VerifyOTP(email, otp string) (*model.Student, error)
	UpdateOTP(email, otp string, expiry time.Time) error
	OTPMatches(email, otp string) (bool, error)
	UpdatePassword(id uint, hash string) error
	ResetPassword(email, otp, hash string) error
}

// OTPSender delivers the verification code. Failures are logged, never
// fatal: the OTP is stored before sending and can be resent.
type OTPSender interface {
	SendOTP(toEmail, name, otp string) error
	SendPasswordResetOTP(toEmail, name, otp string) error
}

// PublicIDAssigner commits a fresh public id to a verified account.
type PublicIDAssigner interface {
	AllocateAndAssign(studentID uint) (int, error)
}

// AuthService runs registration, OTP verification, and login. Accounts are
// created unverified with no public id; the id is allocated when the email
// verifies, so only verified accounts occupy the 5-digit namespace.
type AuthService struct {
	Students StudentAccounts
	Identity PublicIDAssigner
	Mail     OTPSender
	Cfg      *config.Config
}

func NewAuthService(students StudentAccounts, identity PublicIDAssigner, mail OTPSender, cfg *config.Config) *AuthService {
	return &AuthService{
		Students: students,
		Identity: identity,
		Mail:     mail,
		Cfg:      cfg,
	}
}

// RegisterInput carries the registration form. Only name, email, and
// password are required.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	Address     string
	DateOfBirth *time.Time
}

func (s *AuthService) Register(in RegisterInput) (*model.Student, error) {
	_, err := s.Students.FindByEmail(in.Email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(util.OTPTTL)

	student := &model.Student{
		Name:        in.Name,
		Email:       in.Email,
		Password:    string(hashed),
		Phone:       in.Phone,
		Address:     in.Address,
		DateOfBirth: in.DateOfBirth,
		OTP:         otp,
		OTPExpiry:   &expiry,
	}
	if err := s.Students.Create(student); err != nil {
		// Concurrent registration with the same email hit the unique index.
		if errors.Is(err, util.ErrDuplicateKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	if err := s.Mail.SendOTP(student.Email, student.Name, otp); err != nil {
		logger.Log.Warn("failed to send OTP email, code stored for resend",
			zap.String("email", student.Email), zap.Error(err))
	}

	return student, nil
}

// VerifyOTP marks the account verified and allocates its public id. A
// wrong, stale, or unknown code reports ErrInvalidOTP without revealing
// which.
func (s *AuthService) VerifyOTP(email, otp string) (*model.Student, error) {
	student, err := s.Students.VerifyOTP(email, otp)
	if err != nil {
		return nil, err
	}

	if err := s.ensurePublicID(student); err != nil {
		// The account stays verified with the OTP consumed; Login picks
		// the allocation up again, so the caller can simply log in later.
		return nil, err
	}

	return student, nil
}

// ensurePublicID allocates an id for a verified account that has none.
// Verification normally assigns the id, but an allocation failure there
// leaves the account verified without one, and this closes that gap on
// the next entry.
func (s *AuthService) ensurePublicID(student *model.Student) error {
	if student.PublicID != nil {
		return nil
	}
	publicID, err := s.Identity.AllocateAndAssign(student.ID)
	if err != nil {
		return err
	}
	student.PublicID = &publicID
	return nil
}

func (s *AuthService) ResendOTP(email string) error {
	student, err := s.Students.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}
	if student.IsVerified {
		return util.ErrAlreadyVerified
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.Students.UpdateOTP(email, otp, time.Now().Add(util.OTPTTL)); err != nil {
		return err
	}

	if err := s.Mail.SendOTP(student.Email, student.Name, otp); err != nil {
		logger.Log.Warn("failed to resend OTP email",
			zap.String("email", student.Email), zap.Error(err))
	}
	return nil
}

// Login checks the credentials and returns a signed token. Unknown email
// and wrong password are indistinguishable to the caller; an unverified
// account is reported as such.
func (s *AuthService) Login(email, password string) (string, *model.Student, error) {
	student, err := s.Students.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !student.IsVerified {
		return "", nil, util.ErrNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := s.ensurePublicID(student); err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(student, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, student, nil
}

// ForgotPassword stores a reset code on the account and mails it. Only
// verified accounts may reset: an unverified account still holds its
// registration code, and overwriting it here would let a reset code
// verify the email.
func (s *AuthService) ForgotPassword(email string) error {
	student, err := s.Students.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}
	if !student.IsVerified {
		return util.ErrNotVerified
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.Students.UpdateOTP(email, otp, time.Now().Add(util.OTPTTL)); err != nil {
		return err
	}

	if err := s.Mail.SendPasswordResetOTP(student.Email, student.Name, otp); err != nil {
		logger.Log.Warn("failed to send password reset email",
			zap.String("email", student.Email), zap.Error(err))
	}
	return nil
}

// CheckResetOTP validates the code without consuming it, so the reset
// form can reject a typo before asking for the new password.
func (s *AuthService) CheckResetOTP(email, otp string) error {
	ok, err := s.Students.OTPMatches(email, otp)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrInvalidOTP
	}
	return nil
}

// ResetPassword sets the new password when the code matches, consuming
// the code in the same conditional update.
func (s *AuthService) ResetPassword(email, otp, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Students.ResetPassword(email, otp, string(hashed))
}

func (s *AuthService) ChangePassword(id uint, oldPassword, newPassword string) error {
	student, err := s.Students.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(oldPassword)); err != nil {
		return util.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Students.UpdatePassword(id, string(hashed))
}

// generateOTP draws a 6-digit code from the cryptographic source.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", 100000+n.Int64()), nil
}
