// Package ledger derives a chronological view of loyalty point movements
// from order history. Nothing is stored: every order already carries its
// PointsUsed and PointsEarned, so the ledger is a pure read model over the
// order repository.
package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/aetherstore/storefront/internal/domain"
	"github.com/aetherstore/storefront/internal/repository"
)

type EntryType string

const (
	EntryEarned EntryType = "earned"
	EntrySpent  EntryType = "spent"
)

// Entry is a single point movement. Points is always positive; Delta gives
// the signed effect on the balance.
type Entry struct {
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	CustomerEmail string    `json:"customerEmail"`
	Type          EntryType `json:"type"`
	Points        int       `json:"points"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (e Entry) Delta() int {
	if e.Type == EntrySpent {
		return -e.Points
	}
	return e.Points
}

type Service struct {
	orders repository.OrderRepository
}

func NewService(orders repository.OrderRepository) *Service {
	return &Service{orders: orders}
}

// History returns point movements newest-first. An empty userID returns the
// ledger across all customers.
func (s *Service) History(ctx context.Context, userID string) ([]Entry, error) {
	var (
		orders []*domain.Order
		err    error
	)
	if userID == "" {
		orders, err = s.orders.ListOrders(ctx)
	} else {
		orders, err = s.orders.ListOrdersByUserID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(orders))
	for _, o := range orders {
		if o.UserID == "" {
			continue // guest orders move no points
		}
		if o.PointsEarned > 0 {
			entries = append(entries, Entry{
				OrderID:       o.ID,
				UserID:        o.UserID,
				CustomerEmail: o.CustomerEmail,
				Type:          EntryEarned,
				Points:        o.PointsEarned,
				CreatedAt:     o.CreatedAt,
			})
		}
		if o.PointsUsed > 0 {
			entries = append(entries, Entry{
				OrderID:       o.ID,
				UserID:        o.UserID,
				CustomerEmail: o.CustomerEmail,
				Type:          EntrySpent,
				Points:        o.PointsUsed,
				CreatedAt:     o.CreatedAt,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Reconciliation compares a customer's ledger sum against the live balance.
// The two drift when points were credited outside checkout or an earning
// write failed mid-settlement.
type Reconciliation struct {
	UserID     string `json:"userId"`
	LedgerSum  int    `json:"ledgerSum"`
	Balance    int    `json:"balance"`
	Consistent bool   `json:"consistent"`
}

func (s *Service) Reconcile(ctx context.Context, users repository.UserRepository, userID string) (*Reconciliation, error) {
	user, err := users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum := 0
	for _, e := range entries {
		sum += e.Delta()
	}

	return &Reconciliation{
		UserID:     userID,
		LedgerSum:  sum,
		Balance:    user.LoyaltyPoints,
		Consistent: sum == user.LoyaltyPoints,
	}, nil
}
