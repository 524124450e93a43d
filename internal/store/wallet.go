package store

import (
	"context"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
)

// DefaultMoneyAbbr is the currency withdrawals are listed in.
const DefaultMoneyAbbr = "ETH_MXC"

// uncountedEnvelope covers the wallet history responses, which carry rows
// under an endpoint-specific key and no total.
type uncountedEnvelope struct {
	StakingHist     []model.StakingHistory  `json:"stakingHist"`
	WithdrawHistory []model.WithdrawHistory `json:"withdrawHistory"`
	TopupHistory    []model.TopUpHistory    `json:"topupHistory"`
}

// Wallet reads M2M wallet histories.
type Wallet struct {
	base
	moneyAbbr string
}

// NewWallet constructs a Wallet store.
func NewWallet(opts Options) (*Wallet, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &Wallet{base: b, moneyAbbr: DefaultMoneyAbbr}, nil
}

// StakingSource lists the staking history of organization ListQuery.OwnerID.
func (s *Wallet) StakingSource() Source[model.StakingHistory] {
	return Source[model.StakingHistory]{List: s.StakingHistory}
}

// WithdrawSource lists the withdrawals of organization ListQuery.OwnerID.
func (s *Wallet) WithdrawSource() Source[model.WithdrawHistory] {
	return Source[model.WithdrawHistory]{List: s.WithdrawHistory}
}

// TopUpSource lists the top-ups of organization ListQuery.OwnerID.
func (s *Wallet) TopUpSource() Source[model.TopUpHistory] {
	return Source[model.TopUpHistory]{List: s.TopUpHistory}
}

// StakingHistory pages the staking ledger of organization q.OwnerID.
func (s *Wallet) StakingHistory(ctx context.Context, q ListQuery) (model.Page[model.StakingHistory], error) {
	if err := requireOwner("list staking history", q.OwnerID); err != nil {
		return model.Page[model.StakingHistory]{}, err
	}
	return fetchUncounted(ctx, s.base, q, listCall{
		op:   "list staking history",
		path: ownerPath("/api/staking", q.OwnerID, "/history"),
	}, func(e *uncountedEnvelope) []model.StakingHistory { return e.StakingHist })
}

// WithdrawHistory pages the withdrawals of organization q.OwnerID.
func (s *Wallet) WithdrawHistory(ctx context.Context, q ListQuery) (model.Page[model.WithdrawHistory], error) {
	if err := requireOwner("list withdraw history", q.OwnerID); err != nil {
		return model.Page[model.WithdrawHistory]{}, err
	}
	return fetchUncounted(ctx, s.base, q, listCall{
		op:    "list withdraw history",
		path:  "/api/withdraw/history",
		query: map[string][]string{"orgId": {q.OwnerID}, "moneyAbbr": {s.moneyAbbr}},
	}, func(e *uncountedEnvelope) []model.WithdrawHistory { return e.WithdrawHistory })
}

// TopUpHistory pages the top-ups of organization q.OwnerID.
func (s *Wallet) TopUpHistory(ctx context.Context, q ListQuery) (model.Page[model.TopUpHistory], error) {
	if err := requireOwner("list top-up history", q.OwnerID); err != nil {
		return model.Page[model.TopUpHistory]{}, err
	}
	return fetchUncounted(ctx, s.base, q, listCall{
		op:    "list top-up history",
		path:  "/api/top-up/history",
		query: map[string][]string{"orgId": {q.OwnerID}},
	}, func(e *uncountedEnvelope) []model.TopUpHistory { return e.TopupHistory })
}
