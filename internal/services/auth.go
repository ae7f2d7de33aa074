package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/apperr"
	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/repos"
	"github.com/avelars/pantrylist-backend/internal/requestdata"
	"github.com/avelars/pantrylist-backend/internal/types"
)

const bcryptCost = 8

type RegisterOwnerRequest struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Password       string `json:"password"`
	CurrencySymbol string `json:"currency_symbol"`
}

type LoginResult struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	User         *types.User         `json:"user"`
	Access       *SubscriptionAccess `json:"access"`
}

type AuthService interface {
	RegisterOwner(ctx context.Context, req RegisterOwnerRequest) (*types.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	subRepo       repos.SubscriptionRepo
	userTokenRepo repos.UserTokenRepo
	accessService AccessService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, subRepo repos.SubscriptionRepo, userTokenRepo repos.UserTokenRepo, accessService AccessService, jwtSecretKey string, accessTTL, refreshTTL time.Duration) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		subRepo:       subRepo,
		userTokenRepo: userTokenRepo,
		accessService: accessService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RegisterOwner creates the user and their subscription in one transaction,
// so an owner never exists without a household to own.
func (as *authService) RegisterOwner(ctx context.Context, req RegisterOwnerRequest) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || strings.TrimSpace(req.FirstName) == "" {
		return nil, apperr.Validationf("email, password and first name are required")
	}
	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user email: %w", err)
	}
	if exists {
		return nil, apperr.Conflictf("email is already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	currency := req.CurrencySymbol
	if currency == "" {
		currency = "$"
	}

	var user *types.User
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err = as.userRepo.Create(ctx, tx, &types.User{
			ID:        uuid.New(),
			Email:     email,
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Password:  string(hashed),
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if _, err := as.subRepo.Create(ctx, tx, &types.Subscription{
			ID:             uuid.New(),
			OwnerID:        user.ID,
			CurrencySymbol: currency,
			IsActive:       true,
		}); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("Owner registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validationf("email and password are required")
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	// Same message for unknown email and wrong password.
	if user == nil {
		return nil, apperr.Validationf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Validationf("invalid email or password")
	}

	access, err := as.accessService.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return as.issueTokens(ctx, user, access)
}

func (as *authService) issueTokens(ctx context.Context, user *types.User, access *SubscriptionAccess) (*LoginResult, error) {
	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken := uuid.New().String()

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("failed to delete previous tokens: %w", err)
		}
		_, err := as.userTokenRepo.Create(ctx, tx, &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		})
		if err != nil {
			return fmt.Errorf("failed to store user token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		Access:       access,
	}, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, apperr.Validationf("refresh token is required")
	}
	stored, err := as.userTokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch refresh token: %w", err)
	}
	if stored == nil || stored.ExpiresAt.Before(time.Now()) {
		return nil, apperr.NotFoundf("refresh token is invalid or expired")
	}
	user, err := as.userRepo.GetByID(ctx, nil, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFoundf("user not found")
	}
	access, err := as.accessService.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return as.issueTokens(ctx, user, access)
}

func (as *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := as.userTokenRepo.DeleteByUserID(ctx, nil, userID); err != nil {
		return fmt.Errorf("failed to delete user tokens: %w", err)
	}
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates an access token and stashes the caller's
// identity in the request context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, apperr.Accessf("invalid or expired token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return ctx, apperr.Accessf("invalid token claims")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apperr.Accessf("invalid token subject")
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}
