package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountService registers users and issues access tokens.
type AccountService struct {
	DB     *gorm.DB
	Tokens *utils.TokenIssuer
}

func NewAccountService(db *gorm.DB, tokens *utils.TokenIssuer) *AccountService {
	return &AccountService{DB: db, Tokens: tokens}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrValidation("invalid email address")
	}
	if len(in.Password) < 8 {
		return nil, ErrValidation("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hashed),
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict("a user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": user.ID}).Info("user registered")
	return &user, nil
}

// Login checks the password and returns a signed token for the user.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.GenerateToken(user.ID, user.IsStaff)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, &user, nil
}
