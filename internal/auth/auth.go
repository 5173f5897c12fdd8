// Package auth exchanges email+password credentials for PocketBase
// tokens and manages the per-handle session state.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
	"github.com/yassine-cc/pb-mcp/internal/session"
)

// Service performs logins against resolved PocketBase instances.
type Service struct {
	store  *session.Store
	logger log.Logger

	adminToken    string
	adminEmail    string
	adminPassword string
}

// Config holds the Service dependencies.
type Config struct {
	Store  *session.Store
	Logger log.Logger

	// AdminToken/AdminEmail/AdminPassword come from the environment and
	// drive Bootstrap. AdminToken short-circuits auto-authentication.
	AdminToken    string
	AdminEmail    string
	AdminPassword string
}

// NewService creates an authentication service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{
		store:         cfg.Store,
		logger:        logger,
		adminToken:    cfg.AdminToken,
		adminEmail:    cfg.AdminEmail,
		adminPassword: cfg.AdminPassword,
	}, nil
}

// Session is the result of a successful login.
type Session struct {
	Token    string
	Identity *pocketbase.Identity
}

// AuthenticateAdmin logs in against the reserved superusers collection.
// The resulting identity is always an administrator and always verified.
// With saveSession the token is written into the resolved handle's
// credential slot; otherwise the stored handle is left untouched so
// callers can obtain a one-off credential.
func (s *Service) AuthenticateAdmin(ctx context.Context, email, password, baseURL string, saveSession bool) (*Session, error) {
	return s.authenticate(ctx, pocketbase.AdminCollection, email, password, baseURL, saveSession, true)
}

// AuthenticateUser logs in against an application-user collection
// (default "users"). The identity's administrator flag is always false;
// its verification flag comes from the backend response.
func (s *Service) AuthenticateUser(ctx context.Context, collection, email, password, baseURL string, saveSession bool) (*Session, error) {
	if collection == "" {
		collection = pocketbase.DefaultUserCollection
	}
	return s.authenticate(ctx, collection, email, password, baseURL, saveSession, false)
}

func (s *Service) authenticate(ctx context.Context, collection, email, password, baseURL string, saveSession, isAdmin bool) (*Session, error) {
	client := s.store.Resolve(baseURL)

	resp, err := client.AuthWithPassword(ctx, collection, email, password)
	if err != nil {
		return nil, classifyAuthError(err)
	}

	identity := pocketbase.IdentityFromRecord(resp.Record, collection, isAdmin)
	if saveSession {
		client.SetCredential(pocketbase.Credential{
			Token:    resp.Token,
			Identity: identity,
		})
	}

	s.logger.Info("authenticated",
		"collection", collection,
		"url", client.BaseURL(),
		"admin", isAdmin,
		"saved", saveSession)

	return &Session{Token: resp.Token, Identity: identity}, nil
}

// Logout clears the resolved handle's credential slot in place and
// reports whether a credential was present. Idempotent.
func (s *Service) Logout(baseURL string) bool {
	client := s.store.Resolve(baseURL)

	was := client.Credential().Valid()
	client.ClearCredential()

	s.logger.Info("logged out", "url", client.BaseURL(), "wasAuthenticated", was)
	return was
}

// Status describes a handle's authentication state.
type Status struct {
	IsAuthenticated bool
	HasToken        bool
	Identity        *pocketbase.Identity
}

// CheckStatus is a pure query over the resolved handle's credential
// slot; an empty or expired token reads as not authenticated and its
// cached identity is withheld.
func (s *Service) CheckStatus(baseURL string) Status {
	cred := s.store.Resolve(baseURL).Credential()
	status := Status{
		IsAuthenticated: cred.Valid(),
		HasToken:        cred.Token != "",
	}
	if status.IsAuthenticated {
		status.Identity = cred.Identity
	}
	return status
}

// Bootstrap performs the one-shot startup auto-authentication. It is
// skipped when an admin token is already configured or no credentials
// are present. A failure is logged and reported, never fatal.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.adminToken != "" {
		s.logger.Debug("auto-auth skipped: admin token configured")
		return nil
	}
	if s.adminEmail == "" || s.adminPassword == "" {
		s.logger.Debug("auto-auth skipped: no admin credentials configured")
		return nil
	}

	_, err := s.AuthenticateAdmin(ctx, s.adminEmail, s.adminPassword, "", true)
	if err != nil {
		s.logger.Warn("auto-authentication failed", "error", err)
		return err
	}
	return nil
}

// classifyAuthError applies the authentication-specific failure mapping:
// a 400/401-class rejection becomes AUTH_INVALID with the backend's
// message passed through ("Invalid credentials" if empty); connectivity
// failures become NETWORK_ERROR; everything else falls back to the
// general taxonomy.
func classifyAuthError(err error) *pberr.Error {
	var apiErr *pocketbase.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return pberr.Wrap(pberr.CodeAuthInvalid, apiErr.Message, err)
		}
	}
	return pberr.Classify(err)
}
