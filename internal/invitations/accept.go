package invitations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorstack/creatorstack-backend/internal/roles"
	"github.com/creatorstack/creatorstack-backend/internal/users"
	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
	"github.com/creatorstack/creatorstack-backend/pkg/metrics"
	"github.com/creatorstack/creatorstack-backend/pkg/security"
)

// SessionTokens carries a freshly minted access/refresh pair.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
}

// SessionIssuer establishes an authenticated session after a successful
// acceptance. Implementations run after the transaction commits.
type SessionIssuer interface {
	Establish(ctx context.Context, user *models.User, teamID uuid.UUID, role enums.RoleLevel) (*SessionTokens, error)
}

// AcceptResult reports the outcome of a successful acceptance.
type AcceptResult struct {
	User           *models.User
	TeamID         uuid.UUID
	Role           enums.RoleLevel
	InvitationType enums.InvitationType
	Tokens         *SessionTokens
}

// Acceptor redeems invitation tokens. Accept is safe to call concurrently
// with the same token; exactly one call wins.
type Acceptor interface {
	Accept(ctx context.Context, plaintext string) (*AcceptResult, error)
}

// AcceptorParams bundles the dependencies for the acceptance flow.
type AcceptorParams struct {
	TxRunner TxRunner
	Registry *Registry
	Sessions SessionIssuer
	Logger   *logger.Logger
	Metrics  *metrics.InvitationMetrics
}

type acceptor struct {
	tx       TxRunner
	registry *Registry
	sessions SessionIssuer
	logg     *logger.Logger
	metrics  *metrics.InvitationMetrics
}

// NewAcceptor constructs the acceptance orchestrator.
func NewAcceptor(params AcceptorParams) (Acceptor, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.Registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "handler registry required")
	}
	return &acceptor{
		tx:       params.TxRunner,
		registry: params.Registry,
		sessions: params.Sessions,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

func (a *acceptor) Accept(ctx context.Context, plaintext string) (*AcceptResult, error) {
	plaintext = strings.TrimSpace(plaintext)
	if plaintext == "" {
		a.metrics.IncRejected("missing_token")
		return nil, invalidTokenError(ErrInvalidOrExpired)
	}
	digest := security.HashInviteToken(plaintext)

	var result *AcceptResult
	err := a.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := NewRepository(tx)
		userRepo := users.NewRepository(tx)
		roleRepo := roles.NewRepository(tx)

		row, err := invRepo.FindByDigest(ctx, digest)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalidTokenError(ErrInvalidOrExpired)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup invitation")
		}
		if row.AcceptedAt != nil {
			return invalidTokenError(ErrAlreadyAccepted)
		}
		if !row.IsValid(time.Now().UTC()) {
			return invalidTokenError(ErrInvalidOrExpired)
		}

		handler, err := a.registry.Get(row.InvitationType)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve invitation handler")
		}
		ictx := Context(row.Context)

		user, err := a.resolveUser(ctx, tx, userRepo, handler, row, ictx)
		if err != nil {
			return err
		}

		role := handler.RoleForAcceptance()
		if _, err := roleRepo.Upsert(ctx, user.ID, row.TeamID, role); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grant role")
		}

		// Re-read under a row lock. This is the linearization point: of two
		// concurrent redemptions, only the first to lock sees accepted_at
		// still unset.
		locked, err := invRepo.FindByDigestForUpdate(ctx, digest)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalidTokenError(ErrInvalidOrExpired)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock invitation")
		}
		if locked.AcceptedAt != nil {
			return invalidTokenError(ErrAlreadyAccepted)
		}
		if !locked.IsValid(time.Now().UTC()) {
			return invalidTokenError(ErrInvalidOrExpired)
		}

		if err := handler.PostAccept(ctx, tx, user.ID, row.TeamID, ictx); err != nil {
			if errors.Is(err, ErrHandlerNotImplemented) {
				return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "invitation type not yet supported")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "post-accept hook")
		}

		if user.State == enums.UserStateNeedsTeam {
			if err := userRepo.UpdateState(ctx, user.ID, enums.UserStateActive); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "activate user")
			}
			user.State = enums.UserStateActive
		}

		if err := invRepo.MarkAccepted(ctx, locked.ID, time.Now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark invitation accepted")
		}

		result = &AcceptResult{
			User:           user,
			TeamID:         row.TeamID,
			Role:           role,
			InvitationType: row.InvitationType,
		}
		return nil
	})
	if err != nil {
		a.recordRejection(err)
		return nil, err
	}

	a.metrics.IncAccepted(result.InvitationType.String())
	if a.logg != nil {
		fields := map[string]any{
			"team_id":         result.TeamID.String(),
			"user_id":         result.User.ID.String(),
			"invitation_type": result.InvitationType.String(),
			"role_level":      result.Role.String(),
		}
		a.logg.Info(a.logg.WithFields(ctx, fields), "invitation accepted")
	}

	if a.sessions != nil {
		tokens, err := a.sessions.Establish(ctx, result.User, result.TeamID, result.Role)
		if err != nil {
			// Acceptance is committed; the user can still log in normally.
			if a.logg != nil {
				a.logg.Error(ctx, "establish session after acceptance", err)
			}
		} else {
			result.Tokens = tokens
		}
	}

	return result, nil
}

// resolveUser finds the invited user by email or provisions one. Redeeming a
// link sent to an address proves control of that inbox, so the email is
// marked verified either way.
func (a *acceptor) resolveUser(ctx context.Context, tx *gorm.DB, userRepo *users.Repository, handler Handler, row *models.InvitationToken, ictx Context) (*models.User, error) {
	user, err := userRepo.FindByEmail(ctx, row.InvitedEmail)
	if err == nil {
		if !user.EmailVerified {
			if err := userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify user email")
			}
			user.EmailVerified = true
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	name := handler.DisplayName(ctx, tx, row.InvitedEmail, ictx)
	if name == "" {
		name = emailLocalPart(row.InvitedEmail)
	}

	created, err := userRepo.Create(ctx, users.CreateUserDTO{
		Email:         row.InvitedEmail,
		Name:          name,
		EmailVerified: true,
		State:         enums.UserStateNeedsTeam,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "provision user")
	}
	return created, nil
}

func (a *acceptor) recordRejection(err error) {
	switch {
	case errors.Is(err, ErrAlreadyAccepted):
		a.metrics.IncRejected("already_accepted")
	case errors.Is(err, ErrInvalidOrExpired):
		a.metrics.IncRejected("invalid_or_expired")
	}
}

// invalidTokenError maps token failures onto a single public shape so the
// response does not reveal whether a token ever existed.
func invalidTokenError(cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "invitation is invalid or has expired")
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
