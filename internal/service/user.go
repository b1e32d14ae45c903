package service

import (
	"errors"
	"time"

	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Register(username, email, password, avatarURL string) (*model.User, error)
	Login(email, password string) (string, *model.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string) UserService {
	return &userService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a user with a bcrypt-hashed password. Email and username
// are both unique; the check-then-insert race is closed by the unique
// indexes, duplicate key errors come back as the matching conflict.
func (s *userService) Register(username, email, password, avatarURL string) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, apperrors.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &model.User{
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		AvatarURL: avatarURL,
	}

	if err := s.userRepo.Create(newUser); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	return newUser, nil
}

// Login verifies the password and issues a signed token carrying the user
// id. An unknown email reports not-found, a wrong password reports invalid
// credentials.
func (s *userService) Login(email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrUserNotFound
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	// Payload is only signed, not encrypted: no secrets in the claims.
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, user, nil
}
