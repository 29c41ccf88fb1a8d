package service

import (
	"context"
	"strings"
	"time"

	"minimart/internal/apiclient"
	"minimart/internal/apierror"
	"minimart/internal/authz"
	"minimart/internal/config"
	"minimart/internal/model"
	"minimart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MsgCredentialsRequired = "Username and password are required."
	MsgSignInFailed        = "Unable to sign in. Please try again."
)

// expiresIn above this many seconds (one year) is taken to be milliseconds.
const maxExpirySeconds = 365 * 24 * 3600

// LoginResult is a freshly stored session plus where the browser goes next.
type LoginResult struct {
	SessionID string
	Session   *model.Session
	Redirect  string
}

type AuthService interface {
	Login(ctx context.Context, username, password, next string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string)
	Current(ctx context.Context, sessionID string) (*model.Session, error)
}

type authService struct {
	api      *apiclient.Client
	sessions repository.SessionRepository
	carts    repository.CartRepository
	policy   *authz.Policy
	jobs     JobQueue
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(api *apiclient.Client, sessions repository.SessionRepository, carts repository.CartRepository, policy *authz.Policy, jobs JobQueue, cfg *config.Config) AuthService {
	return &authService{api: api, sessions: sessions, carts: carts, policy: policy, jobs: jobs, cfg: cfg, now: time.Now}
}

// Login forwards the credentials to the backend. Backend failures surface with
// the server's own message and are never retried.
func (s *authService) Login(ctx context.Context, username, password, next string) (*LoginResult, error) {
	username, password = strings.TrimSpace(username), strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, apierror.Validation(MsgCredentialsRequired)
	}

	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if res.Token == "" || res.User == nil {
		return nil, apierror.HTTP(502, MsgSignInFailed)
	}

	now := s.now()
	sess := &model.Session{
		Token:     res.Token,
		User:      res.User,
		ExpiresIn: res.ExpiresIn,
		ExpiresAt: s.expiry(res, now),
	}
	id := uuid.NewString()
	sess.ID = id
	if err := s.sessions.Save(ctx, id, sess, sess.ExpiresAt.Sub(now)); err != nil {
		return nil, err
	}

	recordActivity(ctx, s.jobs, sess, "Signed in", now)
	log.Info().Str("user", sess.User.Username).Str("role", sess.User.Role.String()).Msg("auth: login")

	return &LoginResult{
		SessionID: id,
		Session:   sess,
		Redirect:  s.policy.AfterLogin(sess.Role(), next),
	}, nil
}

// expiry prefers the backend's expiresIn, then the token's exp claim, then the
// configured session lifetime.
func (s *authService) expiry(res *apiclient.LoginResult, now time.Time) time.Time {
	if res.ExpiresIn > 0 {
		d := time.Duration(res.ExpiresIn) * time.Second
		if res.ExpiresIn > maxExpirySeconds {
			d = time.Duration(res.ExpiresIn) * time.Millisecond
		}
		return now.Add(d)
	}
	if exp, ok := tokenExpiry(res.Token); ok && exp.After(now) {
		return exp
	}
	return now.Add(s.cfg.SessionTTL())
}

// tokenExpiry reads exp without verifying the signature; the backend owns the key.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Logout always succeeds from the caller's point of view. The sign-out entry
// is posted inline because queued activity resolves its token through the
// session, which is gone once this returns.
func (s *authService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	bg := context.WithoutCancel(ctx)
	if sess, _ := s.sessions.Get(ctx, sessionID); sess.Valid() {
		entry := activityEntry(sess, "Signed out", s.now())
		if err := s.api.WithToken(sess.Token).LogActivity(ctx, entry); err != nil {
			log.Warn().Err(err).Msg("auth: could not log sign-out")
		}
	}
	if err := s.sessions.Delete(bg, sessionID); err != nil {
		log.Warn().Err(err).Msg("auth: could not delete session")
	}
	if s.carts != nil {
		if err := s.carts.Delete(bg, sessionID); err != nil {
			log.Warn().Err(err).Msg("auth: could not discard cart")
		}
	}
}

// Current returns (nil, nil) when the caller is not authenticated.
func (s *authService) Current(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		return nil, nil
	}
	if sess.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, nil
	}
	return sess, nil
}
