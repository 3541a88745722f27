package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"terraUrbBack/internal/models"
	"terraUrbBack/internal/repositories"
	"terraUrbBack/utils"
)

const (
	accessTokenTTL  = 2 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
	codeTTL         = 15 * time.Minute
)

type UserService struct {
	UserRepo     *repositories.UserRepository
	SessionRepo  *repositories.SessionRepository
	CodeRepo     *repositories.VerificationCodeRepository
	ActivityRepo *repositories.ActivityLogRepository
	TokenManager *utils.Manager
	Mailer       *utils.Mailer
}

func generateVerificationCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error) {
	if strings.TrimSpace(req.Nickname) == "" {
		return models.User{}, models.Validationf("nickname is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return models.User{}, models.Validationf("invalid email address")
	}
	if len(req.Password) < 6 {
		return models.User{}, models.Validationf("password must be at least 6 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.UserRepo.CreateUser(ctx, models.User{
		Nickname: strings.TrimSpace(req.Nickname),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	})
	if err != nil {
		return models.User{}, err
	}

	code := generateVerificationCode()
	if err := s.CodeRepo.Create(ctx, models.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		Purpose:   models.CodePurposeEmail,
		ExpiresAt: time.Now().Add(codeTTL),
	}); err != nil {
		return models.User{}, err
	}
	if err := s.Mailer.SendVerificationCode(user.Email, code); err != nil {
		// Delivery problems must not block the registration itself.
		log.Printf("failed to send verification code to %s: %v", user.Email, err)
	}

	s.logActivity(ctx, user.ID, "sign_up", "")
	return user, nil
}

func (s *UserService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrCodeInvalid
		}
		return err
	}
	if err := s.CodeRepo.Consume(ctx, user.ID, models.CodePurposeEmail, code); err != nil {
		return err
	}
	return s.UserRepo.MarkVerified(ctx, user.ID)
}

// SignIn checks credentials and opens a session for the calling device. The
// device label is derived from the User-Agent header so users can recognize
// their sessions later.
func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest, userAgent, ip string) (models.User, models.Tokens, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.User{}, models.Tokens{}, models.ErrInvalidCredentials
		}
		return models.User{}, models.Tokens{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.User{}, models.Tokens{}, models.ErrInvalidCredentials
	}

	accessToken, err := s.TokenManager.NewJWT(user.ID, user.Role, accessTokenTTL)
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}
	refreshToken, err := s.TokenManager.NewRefreshToken()
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}

	if _, err := s.SessionRepo.Create(ctx, models.Session{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    userAgent,
		DeviceName:   utils.DeviceNameFromUserAgent(userAgent),
		IP:           ip,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return models.User{}, models.Tokens{}, err
	}

	s.logActivity(ctx, user.ID, "sign_in", utils.DeviceNameFromUserAgent(userAgent))
	return user, models.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *UserService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return models.Validationf("refresh token is required")
	}
	return s.SessionRepo.DeleteByRefreshToken(ctx, refreshToken)
}

func (s *UserService) ListSessions(ctx context.Context, actor models.Actor) ([]models.Session, error) {
	return s.SessionRepo.GetByUserID(ctx, actor.ID)
}

func (s *UserService) RevokeSession(ctx context.Context, actor models.Actor, sessionID int) error {
	return s.SessionRepo.Delete(ctx, sessionID, actor.ID)
}

// RequestPasswordReset emails a reset code. An unknown email returns success
// so the endpoint does not leak which addresses have accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil
		}
		return err
	}

	code := generateVerificationCode()
	if err := s.CodeRepo.Create(ctx, models.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		Purpose:   models.CodePurposeReset,
		ExpiresAt: time.Now().Add(codeTTL),
	}); err != nil {
		return err
	}
	if err := s.Mailer.SendPasswordResetCode(user.Email, code); err != nil {
		log.Printf("failed to send reset code to %s: %v", user.Email, err)
	}
	return nil
}

func (s *UserService) VerifyResetCode(ctx context.Context, email, code string) error {
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrCodeInvalid
		}
		return err
	}
	return s.CodeRepo.Check(ctx, user.ID, models.CodePurposeReset, code)
}

// ResetPassword consumes the reset code, rewrites the password and revokes
// every open session of the account.
func (s *UserService) ResetPassword(ctx context.Context, req models.NewPasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return models.Validationf("password must be at least 6 characters")
	}
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrCodeInvalid
		}
		return err
	}
	if err := s.CodeRepo.Consume(ctx, user.ID, models.CodePurposeReset, req.Code); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return err
	}
	if err := s.SessionRepo.DeleteByUser(ctx, user.ID); err != nil {
		log.Printf("failed to revoke sessions after password reset for user %d: %v", user.ID, err)
	}

	s.logActivity(ctx, user.ID, "password_reset", "")
	return nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, actor models.Actor, req models.UpdateProfileRequest) (models.User, error) {
	if strings.TrimSpace(req.Nickname) == "" {
		return models.User{}, models.Validationf("nickname is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return models.User{}, models.Validationf("invalid email address")
	}
	return s.UserRepo.UpdateProfile(ctx, models.User{
		ID:       actor.ID,
		Nickname: strings.TrimSpace(req.Nickname),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
	})
}

func (s *UserService) GetAllUsers(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrPermissionDenied
	}
	return s.UserRepo.GetAllUsers(ctx)
}

func (s *UserService) UpdateUserRole(ctx context.Context, actor models.Actor, userID int, role string) error {
	if !actor.IsAdmin() {
		return models.ErrPermissionDenied
	}
	if !models.IsValidRole(role) {
		return models.Validationf("invalid role %q", role)
	}
	if err := s.UserRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}
	s.logActivity(ctx, actor.ID, "role_changed", fmt.Sprintf("user %d -> %s", userID, role))
	return nil
}

// DeleteUser removes an account and everything it owns. Admin only; admins
// cannot delete themselves, which keeps at least one admin alive.
func (s *UserService) DeleteUser(ctx context.Context, actor models.Actor, userID int) error {
	if !actor.IsAdmin() {
		return models.ErrPermissionDenied
	}
	if userID == actor.ID {
		return models.Validationf("cannot delete your own account")
	}
	if err := s.UserRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logActivity(ctx, actor.ID, "user_deleted", fmt.Sprintf("user %d", userID))
	return nil
}

func (s *UserService) logActivity(ctx context.Context, userID int, action, details string) {
	if s.ActivityRepo == nil {
		return
	}
	if err := s.ActivityRepo.Insert(ctx, models.ActivityLog{UserID: userID, Action: action, Details: details}); err != nil {
		log.Printf("activity log failed for %s: %v", action, err)
	}
}
