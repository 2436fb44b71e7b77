package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// ErrNegativeBalance mirrors the accounts.balance >= 0 CHECK constraint.
var ErrNegativeBalance = errors.New("check constraint: balance must not be negative")

// Store is an in-memory stand-in for the Postgres repositories. Transactions
// are serialized on a single store-wide lock and a rollback restores the state
// captured at Begin. It does not model per-row locks; concurrent tests against
// it only see one transaction at a time.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	accounts      map[string]domain.Account
	entries       []domain.LedgerEntry
	payments      map[string]domain.PaymentRequest
	withdrawals   map[string]domain.WithdrawalRequest
	marathons     map[string]domain.Marathon
	participants  []domain.Participant
	payoutWallets map[string]domain.PayoutWallet
	outbox        []domain.OutboxEvent
	auditLogs     []domain.AuditLog

	// Fault injection
	EntryCreateErr    error
	AddParticipantErr error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]domain.Account),
		payments:      make(map[string]domain.PaymentRequest),
		withdrawals:   make(map[string]domain.WithdrawalRequest),
		marathons:     make(map[string]domain.Marathon),
		payoutWallets: make(map[string]domain.PayoutWallet),
	}
}

type snapshot struct {
	accounts     map[string]domain.Account
	entries      []domain.LedgerEntry
	payments     map[string]domain.PaymentRequest
	withdrawals  map[string]domain.WithdrawalRequest
	marathons    map[string]domain.Marathon
	participants []domain.Participant
	outbox       []domain.OutboxEvent
}

func (s *Store) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &snapshot{
		accounts:     copyMap(s.accounts),
		entries:      append([]domain.LedgerEntry(nil), s.entries...),
		payments:     copyMap(s.payments),
		withdrawals:  copyMap(s.withdrawals),
		marathons:    copyMap(s.marathons),
		participants: append([]domain.Participant(nil), s.participants...),
		outbox:       append([]domain.OutboxEvent(nil), s.outbox...),
	}
}

func (s *Store) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = snap.accounts
	s.entries = snap.entries
	s.payments = snap.payments
	s.withdrawals = snap.withdrawals
	s.marathons = snap.marathons
	s.participants = snap.participants
	s.outbox = snap.outbox
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Begin implements usecase.TransactionManager.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.txMu.Lock()
	return &storeTx{store: s, snap: s.snapshot()}, nil
}

type storeTx struct {
	store *Store
	snap  *snapshot
	done  bool
}

func (t *storeTx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("transaction already closed")
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *storeTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.restore(t.snap)
	t.store.txMu.Unlock()
	return nil
}

// Repository views

func (s *Store) Accounts() *AccountRepo { return &AccountRepo{s} }
func (s *Store) Entries() *EntryRepo { return &EntryRepo{s} }
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{s} }
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s} }
func (s *Store) Withdrawals() *WithdrawalRepo { return &WithdrawalRepo{s} }
func (s *Store) Marathons() *MarathonRepo { return &MarathonRepo{s} }
func (s *Store) PayoutWallets() *PayoutWalletRepo { return &PayoutWalletRepo{s} }
func (s *Store) Outbox() *OutboxRepo { return &OutboxRepo{s} }
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s} }

// Seeding and inspection helpers

// PutMarathon stores or replaces a marathon.
func (s *Store) PutMarathon(m domain.Marathon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marathons[m.ID] = m
}

// PutPayoutWallet registers a payout wallet.
func (s *Store) PutPayoutWallet(w domain.PayoutWallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payoutWallets[w.ID] = w
}

// PutPayment stores or replaces a payment.
func (s *Store) PutPayment(p domain.PaymentRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
}

// Marathon returns the stored marathon.
func (s *Store) Marathon(id string) domain.Marathon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.marathons[id]
}

// Payment returns the stored payment.
func (s *Store) Payment(id string) domain.PaymentRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payments[id]
}

// AccountOf returns the user's account, if any.
func (s *Store) AccountOf(userID string) (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.UserID == userID {
			return a, true
		}
	}
	return domain.Account{}, false
}

// EntriesOf returns the account's entries in insertion order.
func (s *Store) EntriesOf(accountID string) []domain.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out
}

// Participants returns the participants of a marathon.
func (s *Store) Participants(marathonID string) []domain.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Participant
	for _, p := range s.participants {
		if p.MarathonID == marathonID {
			out = append(out, p)
		}
	}
	return out
}

// Events returns outbox events of the given type.
func (s *Store) Events(eventType string) []domain.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.OutboxEvent
	for _, e := range s.outbox {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// AuditLogs returns every audit log written.
func (s *Store) AuditLogs() []domain.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AuditLog(nil), s.auditLogs...)
}

// AccountRepo implements usecase.AccountRepository.
type AccountRepo struct{ s *Store }

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *AccountRepo) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	a, ok := r.s.AccountOf(userID)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *AccountRepo) GetOrCreateByUserIDForUpdate(ctx context.Context, tx usecase.Transaction, candidate *domain.Account) (*domain.Account, error) {
	if a, ok := r.s.AccountOf(candidate.UserID); ok {
		return &a, nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accounts[candidate.ID] = *candidate
	created := *candidate
	return &created, nil
}

func (r *AccountRepo) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if balance.IsNegative() {
		return ErrNegativeBalance
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Balance = balance
	a.Version++
	a.UpdatedAt = updatedAt
	r.s.accounts[id] = a
	return nil
}

func (r *AccountRepo) SetFrozen(ctx context.Context, tx usecase.Transaction, id string, frozen bool, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Frozen = frozen
	a.UpdatedAt = updatedAt
	r.s.accounts[id] = a
	return nil
}

func (r *AccountRepo) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.s.mu.RLock()
	all := make([]domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		all = append(all, a)
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	var out []*domain.Account
	for i := offset; i < len(all) && len(out) < limit; i++ {
		a := all[i]
		out = append(out, &a)
	}
	return out, nil
}

// EntryRepo implements usecase.EntryRepository.
type EntryRepo struct{ s *Store }

func sameReference(e domain.LedgerEntry, accountID string, kind domain.EntryKind, refKind, refID string) bool {
	if e.ReferenceID == nil || e.AccountID != accountID || e.Kind != kind || *e.ReferenceID != refID {
		return false
	}
	stored := ""
	if e.ReferenceKind != nil {
		stored = *e.ReferenceKind
	}
	return stored == refKind
}

func (r *EntryRepo) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if r.s.EntryCreateErr != nil {
		return r.s.EntryCreateErr
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if entry.ReferenceID != nil {
		refKind := ""
		if entry.ReferenceKind != nil {
			refKind = *entry.ReferenceKind
		}
		for _, e := range r.s.entries {
			if sameReference(e, entry.AccountID, entry.Kind, refKind, *entry.ReferenceID) {
				return domain.ErrDuplicateReference
			}
		}
	}

	r.s.entries = append(r.s.entries, *entry)
	return nil
}

func (r *EntryRepo) ExistsByReference(ctx context.Context, tx usecase.Transaction, accountID string, kind domain.EntryKind, referenceKind, referenceID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.entries {
		if sameReference(e, accountID, kind, referenceKind, referenceID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *EntryRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	all := r.s.EntriesOf(accountID)

	out := make([]*domain.LedgerEntry, 0, limit)
	for i := len(all) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		e := all[i]
		out = append(out, &e)
	}
	return out, nil
}

func (r *EntryRepo) Summarize(ctx context.Context, accountID string) (*usecase.EntrySummary, error) {
	summary := &usecase.EntrySummary{SignedSum: decimal.Zero, LastBalanceAfter: decimal.Zero}
	for _, e := range r.s.EntriesOf(accountID) {
		summary.Count++
		summary.SignedSum = summary.SignedSum.Add(e.SignedAmount())
		summary.LastBalanceAfter = e.BalanceAfter
	}
	return summary, nil
}

// LedgerRepo implements usecase.LedgerRepository.
type LedgerRepo struct{ s *Store }

func (r *LedgerRepo) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	totalBalance := decimal.Zero
	for _, a := range r.s.accounts {
		totalBalance = totalBalance.Add(a.Balance)
	}

	totalSigned := decimal.Zero
	for _, e := range r.s.entries {
		totalSigned = totalSigned.Add(e.SignedAmount())
	}

	return totalBalance, totalSigned, nil
}

// PaymentRepo implements usecase.PaymentRepository.
type PaymentRepo struct{ s *Store }

func samePendingSlot(p domain.PaymentRequest, userID string, purpose domain.PaymentPurpose, marathonID *string) bool {
	if p.Status != domain.PaymentStatusPending || p.UserID != userID || p.Purpose != purpose {
		return false
	}
	a, b := "", ""
	if p.MarathonID != nil {
		a = *p.MarathonID
	}
	if marathonID != nil {
		b = *marathonID
	}
	return a == b
}

func (r *PaymentRepo) Create(ctx context.Context, tx usecase.Transaction, payment *domain.PaymentRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.payments {
		if p.ExternalID == payment.ExternalID {
			return errors.New("unique violation: payment_requests.external_id")
		}
		if samePendingSlot(p, payment.UserID, payment.Purpose, payment.MarathonID) {
			return domain.ErrPendingPaymentExists
		}
	}

	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*domain.PaymentRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return &p, nil
}

func (r *PaymentRepo) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.PaymentRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *PaymentRepo) GetByExternalIDForUpdate(ctx context.Context, tx usecase.Transaction, externalID string) (*domain.PaymentRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.payments {
		if p.ExternalID == externalID {
			return &p, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *PaymentRepo) FindPending(ctx context.Context, userID string, purpose domain.PaymentPurpose, marathonID *string) (*domain.PaymentRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.payments {
		if samePendingSlot(p, userID, purpose, marathonID) {
			return &p, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *PaymentRepo) FindPendingForUpdate(ctx context.Context, tx usecase.Transaction, userID string, purpose domain.PaymentPurpose, marathonID *string) (*domain.PaymentRequest, error) {
	return r.FindPending(ctx, userID, purpose, marathonID)
}

func (r *PaymentRepo) Update(ctx context.Context, tx usecase.Transaction, payment *domain.PaymentRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[payment.ID]; !ok {
		return domain.ErrPaymentNotFound
	}
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *PaymentRepo) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]*domain.PaymentRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.PaymentRequest
	for _, p := range r.s.payments {
		if len(out) >= limit {
			break
		}
		if p.IsExpired(now) {
			out = append(out, &p)
		}
	}
	return out, nil
}

// WithdrawalRepo implements usecase.WithdrawalRepository.
type WithdrawalRepo struct{ s *Store }

func (r *WithdrawalRepo) Create(ctx context.Context, tx usecase.Transaction, w *domain.WithdrawalRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.withdrawals {
		if existing.TransactionNumber == w.TransactionNumber {
			return errors.New("unique violation: withdrawal_requests.transaction_number")
		}
	}
	r.s.withdrawals[w.ID] = *w
	return nil
}

func (r *WithdrawalRepo) NextSequence(ctx context.Context, tx usecase.Transaction, day time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	y, m, d := day.UTC().Date()
	count := 0
	for _, w := range r.s.withdrawals {
		wy, wm, wd := w.CreatedAt.UTC().Date()
		if wy == y && wm == m && wd == d {
			count++
		}
	}
	return count + 1, nil
}

func (r *WithdrawalRepo) GetByID(ctx context.Context, id string) (*domain.WithdrawalRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.withdrawals[id]
	if !ok {
		return nil, domain.ErrWithdrawalNotFound
	}
	return &w, nil
}

func (r *WithdrawalRepo) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.WithdrawalRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *WithdrawalRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.WithdrawalRequest, error) {
	r.s.mu.RLock()
	var all []domain.WithdrawalRequest
	for _, w := range r.s.withdrawals {
		if w.UserID == userID {
			all = append(all, w)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].TransactionNumber > all[j].TransactionNumber })

	out := make([]*domain.WithdrawalRequest, 0, limit)
	for i := offset; i < len(all) && len(out) < limit; i++ {
		w := all[i]
		out = append(out, &w)
	}
	return out, nil
}

func (r *WithdrawalRepo) UpdateStatus(ctx context.Context, tx usecase.Transaction, w *domain.WithdrawalRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.withdrawals[w.ID]; !ok {
		return domain.ErrWithdrawalNotFound
	}
	r.s.withdrawals[w.ID] = *w
	return nil
}

// MarathonRepo implements usecase.MarathonRepository.
type MarathonRepo struct{ s *Store }

func (r *MarathonRepo) GetByID(ctx context.Context, id string) (*domain.Marathon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.marathons[id]
	if !ok {
		return nil, domain.ErrMarathonNotFound
	}
	return &m, nil
}

func (r *MarathonRepo) IsParticipant(ctx context.Context, marathonID, userID string) (bool, error) {
	for _, p := range r.s.Participants(marathonID) {
		if p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MarathonRepo) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Marathon, error) {
	return r.GetByID(ctx, id)
}

func (r *MarathonRepo) IsParticipantTx(ctx context.Context, tx usecase.Transaction, marathonID, userID string) (bool, error) {
	return r.IsParticipant(ctx, marathonID, userID)
}

// AddParticipant with AddParticipantErr set writes the participant row and
// then fails, like an insert followed by a failed seat increment.
func (r *MarathonRepo) AddParticipant(ctx context.Context, tx usecase.Transaction, participant *domain.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.AddParticipantErr != nil {
		r.s.participants = append(r.s.participants, *participant)
		return r.s.AddParticipantErr
	}

	m, ok := r.s.marathons[participant.MarathonID]
	if !ok {
		return domain.ErrMarathonNotFound
	}
	for _, p := range r.s.participants {
		if p.MarathonID == participant.MarathonID && p.UserID == participant.UserID {
			return domain.ErrAlreadyEnrolled
		}
	}

	r.s.participants = append(r.s.participants, *participant)
	m.CurrentPlayers++
	r.s.marathons[m.ID] = m
	return nil
}

// PayoutWalletRepo implements usecase.PayoutWalletLookup.
type PayoutWalletRepo struct{ s *Store }

func (r *PayoutWalletRepo) GetByID(ctx context.Context, id string) (*domain.PayoutWallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.payoutWallets[id]
	if !ok {
		return nil, domain.ErrPayoutWalletNotFound
	}
	return &w, nil
}

// OutboxRepo implements usecase.OutboxRepository.
type OutboxRepo struct{ s *Store }

func (r *OutboxRepo) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, *event)
	return nil
}

func (r *OutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range r.s.outbox {
		if len(out) >= limit {
			break
		}
		if !e.Published {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *OutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].Published = true
			r.s.outbox[i].PublishedAt = &publishedAt
			return nil
		}
	}
	return errors.New("outbox event not found")
}

// AuditRepo implements usecase.AuditRepository. Audit logs survive rollbacks.
type AuditRepo struct{ s *Store }

func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.auditLogs = append(r.s.auditLogs, *log)
	return nil
}

func (r *AuditRepo) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return r.Create(ctx, log)
}
