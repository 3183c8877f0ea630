package usecase

import (
	"context"
	"errors"
	"time"

	"cabinet-portal/internal/access"
	"cabinet-portal/internal/converter"
	"cabinet-portal/internal/delivery/dto"
	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"
	"cabinet-portal/internal/service"
	"cabinet-portal/pkg/jwt"

	"github.com/sirupsen/logrus"
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, view entity.RoleView, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	CurrentUser(ctx context.Context, view entity.RoleView) *dto.UserResponse
	Home(view entity.RoleView) *dto.HomeResponse
	// ResolveSession hydrates the identity behind an access token from the session store.
	ResolveSession(ctx context.Context, accessToken string) (entity.RoleView, *jwt.Claims, error)
}

type authUsecase struct {
	log         *logrus.Logger
	authRepo    repository.AuthRepository
	sessionRepo repository.SessionRepository
	audit       service.AuditService
	jwtService  *jwt.JWTService
}

func NewAuthUsecase(
	log *logrus.Logger,
	authRepo repository.AuthRepository,
	sessionRepo repository.SessionRepository,
	audit service.AuditService,
	jwtService *jwt.JWTService,
) AuthUsecase {
	return &authUsecase{
		log:         log,
		authRepo:    authRepo,
		sessionRepo: sessionRepo,
		audit:       audit,
		jwtService:  jwtService,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.authRepo.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUnauthorized) || errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		u.log.Warnf("Failed to login: %+v", err)
		return nil, backendFailure(ctx, err)
	}

	view, err := entity.NewRoleView(*user)
	if err != nil {
		u.log.Warnf("Failed to resolve role %q of user %s: %+v", user.Role, user.ID, err)
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.openSession(ctx, view)
	if err != nil {
		return nil, err
	}
	u.logSession(ctx, view, entity.AuditActionUserLogin)
	return tokens, nil
}

// Register creates a patient account and logs it in.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	user, err := u.authRepo.Register(ctx, converter.RegisterRequestToUser(req), req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to register patient: %+v", err)
		return nil, backendFailure(ctx, err)
	}

	// the public form only ever creates patients, whatever the backend echoes
	user.Role = entity.RolePatient
	view, err := entity.NewRoleView(*user)
	if err != nil {
		return nil, err
	}

	tokens, err := u.openSession(ctx, view)
	if err != nil {
		return nil, err
	}
	u.logSession(ctx, view, entity.AuditActionUserRegister)
	return tokens, nil
}

// Logout drops the access session and, when given, the refresh token of the same user.
func (u *authUsecase) Logout(ctx context.Context, view entity.RoleView, accessTokenID, refreshToken string) error {
	userID := view.Identity().ID

	if err := u.sessionRepo.Delete(ctx, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete session: %+v", err)
		return err
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			if err := u.sessionRepo.DeleteRefreshToken(ctx, userID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to delete refresh token: %+v", err)
				return err
			}
		}
	}

	u.logSession(ctx, view, entity.AuditActionUserLogout)
	return nil
}

// RefreshToken rotates a refresh token: the old one is consumed, a new pair is issued.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrSessionExpired
	}

	stored, err := u.sessionRepo.FindRefreshToken(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to find refresh token: %+v", err)
		return nil, err
	}
	if stored == nil {
		return nil, ErrSessionExpired
	}

	if err := u.sessionRepo.DeleteRefreshToken(ctx, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	view, err := entity.NewRoleView(stored.User)
	if err != nil {
		return nil, ErrSessionExpired
	}
	return u.openSession(ctx, view)
}

func (u *authUsecase) CurrentUser(ctx context.Context, view entity.RoleView) *dto.UserResponse {
	user := view.Identity()
	return converter.UserToResponse(&user)
}

func (u *authUsecase) Home(view entity.RoleView) *dto.HomeResponse {
	return &dto.HomeResponse{
		Role:  view.Role().String(),
		Route: access.HomeRoute(view.Role()),
	}
}

func (u *authUsecase) ResolveSession(ctx context.Context, accessToken string) (entity.RoleView, *jwt.Claims, error) {
	claims, err := u.jwtService.ValidateToken(accessToken)
	if err != nil || claims.TokenType != jwt.AccessToken {
		return nil, nil, ErrSessionExpired
	}

	session, err := u.sessionRepo.Find(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to load session: %+v", err)
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrSessionExpired
	}

	view, err := entity.NewRoleView(session.User)
	if err != nil {
		return nil, nil, ErrSessionExpired
	}
	return view, claims, nil
}

// openSession mints a token pair and stores the identity under both token ids.
func (u *authUsecase) openSession(ctx context.Context, view entity.RoleView) (*dto.TokenResponse, error) {
	user := view.Identity()
	role := view.Role().String()

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	now := time.Now()
	if err := u.sessionRepo.Save(ctx, &entity.Session{TokenID: accessTokenID, User: user, CreatedAt: now}, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store session: %+v", err)
		return nil, err
	}
	if err := u.sessionRepo.SaveRefreshToken(ctx, &entity.Session{TokenID: refreshTokenID, User: user, CreatedAt: now}, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:         converter.UserToResponse(&user),
		Home:         access.HomeRoute(view.Role()),
	}, nil
}

func (u *authUsecase) logSession(ctx context.Context, view entity.RoleView, action string) {
	if err := u.audit.LogSession(context.WithoutCancel(ctx), view.Identity(), action); err != nil {
		u.log.Warnf("Failed to audit %s: %+v", action, err)
	}
}
