// internal/domain/identity/provider.go
package identity

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Identity is the opaque authenticated-user handle supplied by the
// external auth collaborator. UID is the stable unique identifier that
// cart synchronization keys off.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Provider publishes the current identity and changes to it. Consumers
// subscribe to be told when the identity becomes present or absent.
type Provider interface {
	// Current returns the current identity, if one is present.
	Current() (Identity, bool)
	// Subscribe registers a change listener and returns an unsubscribe
	// function. Listeners are invoked in the order changes occur; a nil
	// second argument of false means signed out.
	Subscribe(fn func(id Identity, signedIn bool)) (cancel func())
}

// TokenProvider resolves delegated bearer tokens into identities and
// notifies subscribers of sign-in and sign-out transitions.
type TokenProvider struct {
	verifier *auth.Verifier
	logger   *logrus.Logger

	mu      sync.Mutex
	current *Identity
	subs    map[int]func(Identity, bool)
	nextSub int
}

// NewTokenProvider creates a token-backed identity provider
func NewTokenProvider(verifier *auth.Verifier, logger *logrus.Logger) *TokenProvider {
	return &TokenProvider{
		verifier: verifier,
		logger:   logger,
		subs:     make(map[int]func(Identity, bool)),
	}
}

// Current returns the current identity, if one is present
func (p *TokenProvider) Current() (Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Identity{}, false
	}
	return *p.current, true
}

// Subscribe registers a change listener
func (p *TokenProvider) Subscribe(fn func(Identity, bool)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := p.nextSub
	p.nextSub++
	p.subs[key] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, key)
	}
}

// SignIn verifies the presented token and, on success, publishes the
// resulting identity. Presenting a token for the identity already signed
// in is a no-op and does not re-notify.
func (p *TokenProvider) SignIn(token string) (Identity, error) {
	claims, err := p.verifier.VerifyToken(token)
	if err != nil {
		return Identity{}, err
	}

	id := Identity{
		UID:   claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}

	p.mu.Lock()
	if p.current != nil && p.current.UID == id.UID {
		p.mu.Unlock()
		return id, nil
	}
	p.current = &id
	listeners := p.snapshotSubs()
	p.mu.Unlock()

	p.logger.WithField("uid", id.UID).Info("Identity signed in")
	for _, fn := range listeners {
		fn(id, true)
	}
	return id, nil
}

// SignOut clears the current identity and notifies subscribers.
// Signing out while already anonymous is a no-op.
func (p *TokenProvider) SignOut() {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return
	}
	id := *p.current
	p.current = nil
	listeners := p.snapshotSubs()
	p.mu.Unlock()

	p.logger.WithField("uid", id.UID).Info("Identity signed out")
	for _, fn := range listeners {
		fn(Identity{}, false)
	}
}

// snapshotSubs copies the listener set; callers must hold mu. Listeners
// run outside the lock so they may call back into the provider.
func (p *TokenProvider) snapshotSubs() []func(Identity, bool) {
	listeners := make([]func(Identity, bool), 0, len(p.subs))
	for _, fn := range p.subs {
		listeners = append(listeners, fn)
	}
	return listeners
}
