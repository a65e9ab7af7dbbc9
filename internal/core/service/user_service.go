package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/user-service/internal/api/metrics"
	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

// UserService orchestrates the account use cases: it wires credential
// checks, the token issuer, the signin throttle and the repository together.
// Authorization itself happens in the guard before any of these methods run.
type UserService struct {
	repo    ports.UserRepository
	tokens  ports.TokenIssuer
	limiter ports.SigninLimiter
	mail    ports.ConfirmationEnqueuer
	logger  zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	tokens ports.TokenIssuer,
	limiter ports.SigninLimiter,
	mail ports.ConfirmationEnqueuer,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		repo:    repo,
		tokens:  tokens,
		limiter: limiter,
		mail:    mail,
		logger:  logger,
	}
}

// SignUp registers an unconfirmed account with the default role and queues a
// confirmation mail. The password is stored only as a bcrypt hash.
func (s *UserService) SignUp(ctx context.Context, input ports.SignUpInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:             input.Name,
		Surname:          input.Surname,
		Age:              input.Age,
		Email:            input.Email,
		PasswordHash:     string(hash),
		Role:             domain.RoleUser,
		ConfirmationCode: uuid.NewString(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.mail.Enqueue(ports.ConfirmationJob{
		Email: created.Email,
		Name:  created.Name,
		Code:  created.ConfirmationCode,
	})

	metrics.SignupsTotal.Inc()
	s.logger.Info().Int64("user_id", created.ID).Msg("user signed up")
	return created, nil
}

// Confirm activates the account matching the confirmation code. The code is
// single-use: once consumed, replaying it fails with domain.ErrUserNotFound.
func (s *UserService) Confirm(ctx context.Context, code string) (*domain.User, error) {
	user, err := s.repo.Confirm(ctx, code)
	if err != nil {
		return nil, err
	}

	metrics.ConfirmationsTotal.Inc()
	s.logger.Info().Int64("user_id", user.ID).Msg("user confirmed")
	return user, nil
}

// SignIn checks the credentials and returns a freshly issued bearer token.
// Unknown email and wrong password both surface as ErrInvalidCredentials so
// callers cannot enumerate accounts; repeated failures per email are
// throttled through the limiter.
func (s *UserService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	blocked, err := s.limiter.Blocked(ctx, email)
	if err != nil {
		s.logger.Warn().Err(err).Msg("signin throttle check failed, continuing")
	} else if blocked {
		metrics.SigninsTotal.WithLabelValues("throttled").Inc()
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, s.signInFailed(ctx, email)
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, s.signInFailed(ctx, email)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("signin throttle reset failed")
	}

	metrics.SigninsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Int64("user_id", user.ID).Msg("user signed in")
	return token, user, nil
}

func (s *UserService) signInFailed(ctx context.Context, email string) error {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record signin failure")
	}
	metrics.SigninsTotal.WithLabelValues("invalid_credentials").Inc()
	return domain.ErrInvalidCredentials
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) Update(ctx context.Context, id int64, fields ports.UpdateUserInput) (*domain.User, error) {
	return s.repo.Update(ctx, id, fields)
}

func (s *UserService) UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	if !role.In(domain.RoleUser, domain.RoleAdmin, domain.RoleSuper) {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Str("role", string(role)).Msg("user role updated")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
