// Package auth provides OIDC bearer-token verification and caller role
// extraction. The engine consumes only the resolved role string; token
// validation is delegated to the configured identity provider.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/camber-build/camber/pkg/handlers"
	"github.com/camber-build/camber/pkg/lifecycle"
)

// DevRoleHeader supplies the caller role when verification is disabled.
const DevRoleHeader = "X-Camber-Role"

// System verifies request identity and exposes the caller's role.
type System interface {
	// Start registers a startup hook that resolves the OIDC provider metadata.
	Start(lc *lifecycle.Coordinator) error
	// Middleware returns middleware that authenticates requests and stores
	// the caller role in the request context.
	Middleware() func(http.Handler) http.Handler
	// SubmitRoles returns the allow-list of roles permitted to edit and
	// submit reviews.
	SubmitRoles() []string
}

type system struct {
	cfg      *Config
	verifier *oidc.IDTokenVerifier
	logger   *slog.Logger
}

// New creates an auth system from the given configuration.
// Provider discovery is deferred until Start.
func New(cfg *Config, logger *slog.Logger) System {
	return &system{
		cfg:    cfg,
		logger: logger.With("system", "auth"),
	}
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	if !s.cfg.Enabled {
		s.logger.Warn("token verification disabled; using development role header")
		return nil
	}

	lc.OnStartup(func() {
		provider, err := oidc.NewProvider(lc.Context(), s.cfg.Issuer)
		if err != nil {
			s.logger.Error("oidc provider discovery failed", "issuer", s.cfg.Issuer, "error", err)
			return
		}

		s.verifier = provider.Verifier(&oidc.Config{ClientID: s.cfg.ClientID})
		s.logger.Info("oidc provider ready", "issuer", s.cfg.Issuer)
	})

	return nil
}

func (s *system) SubmitRoles() []string {
	return s.cfg.SubmitRoles
}

func (s *system) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := s.resolveRole(r)
			if err != nil {
				handlers.RespondError(w, s.logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithRole(r.Context(), role)))
		})
	}
}

func (s *system) resolveRole(r *http.Request) (string, error) {
	if !s.cfg.Enabled {
		if role := r.Header.Get(DevRoleHeader); role != "" {
			return role, nil
		}
		return "admin", nil
	}

	if s.verifier == nil {
		return "", ErrNotReady
	}

	rawToken, err := bearerToken(r)
	if err != nil {
		return "", err
	}

	token, err := s.verifier.Verify(r.Context(), rawToken)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims map[string]any
	if err := token.Claims(&claims); err != nil {
		return "", fmt.Errorf("%w: parse claims: %w", ErrInvalidToken, err)
	}

	role, ok := claims[s.cfg.RoleClaim].(string)
	if !ok || role == "" {
		return "", ErrMissingRole
	}

	return role, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}
