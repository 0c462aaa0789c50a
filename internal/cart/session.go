package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/money"
)

var ErrUnsupportedLocale = errors.New("unsupported locale")

// Store persists session state. Load returns NewState() for a session it has never seen.
type Store interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Save(ctx context.Context, sessionID string, st State) error
}

// Session is the state of one storefront session. It is loaded once when opened and
// saved after every mutation; concurrent sessions on the same id are last write wins.
type Session struct {
	id     string
	store  Store
	locale i18n.Locale
	cart   Cart
}

func Open(ctx context.Context, store Store, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, errors.New("session id is empty")
	}
	st, err := store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session state: %w", err)
	}
	return &Session{
		id:     sessionID,
		store:  store,
		locale: st.Locale,
		cart:   Cart{Items: st.Cart},
	}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Locale() i18n.Locale { return s.locale }

// Items returns a copy of the cart lines.
func (s *Session) Items() []LineItem {
	items := make([]LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

func (s *Session) Total(currency money.Currency) int64 { return s.cart.Total(currency) }

func (s *Session) Count() int { return s.cart.Count() }

func (s *Session) State() State {
	return State{Locale: s.locale, Cart: s.Items()}
}

func (s *Session) AddItem(ctx context.Context, ref ProductRef, quantity int) error {
	if err := s.cart.AddItem(ref, quantity); err != nil {
		return err
	}
	return s.save(ctx)
}

func (s *Session) RemoveItem(ctx context.Context, productID int64) error {
	s.cart.RemoveItem(productID)
	return s.save(ctx)
}

func (s *Session) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	s.cart.SetQuantity(productID, quantity)
	return s.save(ctx)
}

func (s *Session) Clear(ctx context.Context) error {
	s.cart.Clear()
	return s.save(ctx)
}

func (s *Session) SetLocale(ctx context.Context, l i18n.Locale) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, l)
	}
	s.locale = l
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.id, s.State()); err != nil {
		return fmt.Errorf("saving session state: %w", err)
	}
	return nil
}
