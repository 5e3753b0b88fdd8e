// internal/domain/session/session.go
package session

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/identity"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Deps are the collaborators a session wires together, injected from the
// composition root.
type Deps struct {
	Config   *config.Config
	Store    cart.Store
	Verifier *auth.Verifier
	Catalog  *catalog.Client
	Logger   *logrus.Logger
}

// Session holds the per-browsing-session state the storefront needs:
// an identity provider adapter, the cart manager synchronized through
// it, and a catalog browser with its filter state. The identity
// subscription drives cart synchronization; nothing else observes it.
type Session struct {
	ID        string
	Provider  *identity.TokenProvider
	Cart      *cart.Manager
	Browser   *catalog.Browser
	refresher *catalog.StockRefresher
	unsub     func()
}

// New wires up a session. The anonymous cart slot is one file per
// session under the configured directory, read once here.
func New(id string, deps Deps) *Session {
	provider := identity.NewTokenProvider(deps.Verifier, deps.Logger)
	slot := cart.NewFileStore(filepath.Join(deps.Config.CartStore.LocalDir, id+".json"))
	manager := cart.NewManager(deps.Store, slot, deps.Logger)
	browser := catalog.NewBrowser(deps.Catalog, deps.Config.Catalog.PageSize, deps.Logger)
	refresher := catalog.NewStockRefresher(browser, deps.Config.Catalog.StockRefreshInterval)

	s := &Session{
		ID:        id,
		Provider:  provider,
		Cart:      manager,
		Browser:   browser,
		refresher: refresher,
	}

	s.unsub = provider.Subscribe(func(ident identity.Identity, signedIn bool) {
		if signedIn {
			manager.SignIn(ident.UID)
		} else {
			manager.SignOut()
		}
	})

	refresher.Start()
	return s
}

// Close tears the session down: stock refresher first, then the identity
// subscription, then the cart manager so in-flight writes drain.
func (s *Session) Close() {
	s.refresher.Stop()
	s.unsub()
	s.Cart.Close()
}
