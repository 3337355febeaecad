package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/bnema/claude-usage-cli/internal/ports"
	"github.com/google/uuid"
)

// Monitor owns the linked accounts. Every mutation goes through mu; network
// calls run without it and re-validate their account by id on completion.
type Monitor struct {
	store    ports.StateStore
	api      ports.UsageAPI
	notifier ports.Notifier
	clock    ports.Clock
	logger   *slog.Logger
	newID    func() domain.AccountID

	mu             sync.Mutex
	accounts       []domain.Account
	requests       map[domain.AccountID]uint64
	settings       domain.Settings
	subscribers    map[int]chan domain.StatusSignal
	nextSubscriber int

	background sync.WaitGroup
}

func NewMonitor(store ports.StateStore, api ports.UsageAPI, notifier ports.Notifier, clock ports.Clock, logger *slog.Logger) *Monitor {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Monitor{
		store:       store,
		api:         api,
		notifier:    notifier,
		clock:       clock,
		logger:      logger,
		newID:       newAccountID,
		requests:    map[domain.AccountID]uint64{},
		settings:    domain.DefaultSettings(),
		subscribers: map[int]chan domain.StatusSignal{},
	}
}

func newAccountID() domain.AccountID {
	return domain.AccountID(uuid.NewString())
}

// Load migrates a legacy record if needed and then restores the persisted
// accounts and settings. Unreadable state is logged and treated as empty.
func (m *Monitor) Load(ctx context.Context) {
	migrated, err := MigrateLegacy(ctx, m.store, m.store, m.newID)
	if err != nil {
		m.logger.Warn("legacy migration failed", "err", err)
	} else if migrated {
		m.logger.Info("migrated legacy credential into account store")
	}

	m.Refresh(ctx)
}

// Refresh adopts the accounts and settings currently in the store, which
// other processes may have edited. Accounts are matched by id: new ids are
// added, missing ids dropped, and a changed credential resets fetched state
// and invalidates in-flight fetches. Fetched state of unchanged accounts is
// kept. When the store cannot be read the current collection stays as is.
func (m *Monitor) Refresh(ctx context.Context) {
	accounts, accountsErr := m.store.Load(ctx)
	if errors.Is(accountsErr, domain.ErrAccountsNotFound) {
		accounts, accountsErr = nil, nil
	}
	settings, settingsErr := m.store.LoadSettings(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if settingsErr != nil {
		m.logger.Warn("load settings failed, keeping current settings", "err", settingsErr)
	} else {
		m.settings = settings
	}

	if accountsErr != nil {
		m.logger.Warn("load accounts failed, keeping current accounts", "err", accountsErr)
		return
	}

	restored, repaired := m.restoreAccounts(accounts)
	m.reconcileLocked(restored)
	if repaired {
		m.persistLocked(ctx)
	}
}

func (m *Monitor) reconcileLocked(stored []domain.Account) {
	accounts := make([]domain.Account, 0, len(stored))
	kept := make(map[domain.AccountID]struct{}, len(stored))
	for _, entry := range stored {
		kept[entry.ID] = struct{}{}

		current := m.findLocked(entry.ID)
		if current == nil {
			accounts = append(accounts, entry)
			continue
		}

		account := *current
		account.Name = entry.Name
		account.LastNotifiedThreshold = entry.LastNotifiedThreshold
		if account.Credential != entry.Credential {
			account.Credential = entry.Credential
			account.ResetFetchState()
			m.requests[entry.ID]++
		}
		accounts = append(accounts, account)
	}

	for id := range m.requests {
		if _, ok := kept[id]; !ok {
			delete(m.requests, id)
		}
	}

	m.accounts = accounts
}

// restoreAccounts normalizes a stored collection. It reports whether ids had
// to be reassigned or accounts dropped, in which case the repaired collection
// must be written back so later refreshes match it by id.
func (m *Monitor) restoreAccounts(loaded []domain.Account) ([]domain.Account, bool) {
	restored := make([]domain.Account, 0, len(loaded))
	seen := make(map[domain.AccountID]struct{}, len(loaded))
	repaired := false
	for _, account := range loaded {
		if len(restored) == domain.MaxAccounts {
			m.logger.Warn("dropping accounts beyond capacity", "max", domain.MaxAccounts, "loaded", len(loaded))
			repaired = true
			break
		}

		id := domain.AccountID(strings.TrimSpace(string(account.ID)))
		if _, dup := seen[id]; dup || id == "" {
			id = m.newID()
			repaired = true
		}
		seen[id] = struct{}{}

		entry := domain.NewAccount(id, domain.NormalizeName(account.Name, len(restored)+1), account.Credential)
		entry.LastNotifiedThreshold = domain.SnapThreshold(account.LastNotifiedThreshold)
		restored = append(restored, entry)
	}

	return restored, repaired
}

// Add links a new account and starts its first fetch in the background. It is
// a no-op returning false once MaxAccounts accounts exist.
func (m *Monitor) Add(ctx context.Context, name, credential string) (domain.Account, bool) {
	m.Refresh(ctx)

	m.mu.Lock()
	if len(m.accounts) >= domain.MaxAccounts {
		m.mu.Unlock()
		m.logger.Debug("add rejected, account limit reached", "max", domain.MaxAccounts)
		return domain.Account{}, false
	}

	account := domain.NewAccount(m.newID(), domain.NormalizeName(name, len(m.accounts)+1), strings.TrimSpace(credential))
	m.accounts = append(m.accounts, account)
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.logger.Info("account added", "account_id", account.ID, "name", account.Name)

	m.background.Add(1)
	go func() {
		defer m.background.Done()
		m.FetchOne(ctx, account.ID)
	}()

	return account, true
}

// Update renames an account and/or replaces its credential. A changed
// credential drops all fetched state and invalidates in-flight fetches.
func (m *Monitor) Update(ctx context.Context, id domain.AccountID, cmd UpdateAccountCommand) bool {
	m.Refresh(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	account := m.findLocked(id)
	if account == nil {
		return false
	}

	if cmd.Name != nil {
		if name := strings.TrimSpace(*cmd.Name); name != "" {
			account.Name = name
		}
	}

	if cmd.Credential != nil {
		credential := strings.TrimSpace(*cmd.Credential)
		if credential != account.Credential {
			account.Credential = credential
			account.ResetFetchState()
			m.requests[id]++
		}
	}

	m.persistLocked(ctx)
	return true
}

// Remove unlinks an account. Fetches still in flight for it are discarded
// when they complete.
func (m *Monitor) Remove(ctx context.Context, id domain.AccountID) bool {
	m.Refresh(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	index := m.indexLocked(id)
	if index < 0 {
		return false
	}

	m.accounts = append(m.accounts[:index], m.accounts[index+1:]...)
	delete(m.requests, id)
	m.persistLocked(ctx)
	m.publishLocked()

	m.logger.Info("account removed", "account_id", id)
	return true
}

func (m *Monitor) Get(id domain.AccountID) (domain.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account := m.findLocked(id)
	if account == nil {
		return domain.Account{}, false
	}

	return cloneAccount(*account), true
}

// All returns copies of the accounts in insertion order.
func (m *Monitor) All() []domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshotLocked()
}

func (m *Monitor) Statuses() []AccountStatus {
	accounts := m.All()
	statuses := make([]AccountStatus, 0, len(accounts))
	for _, account := range accounts {
		statuses = append(statuses, statusFromAccount(account))
	}

	return statuses
}

// Status returns the current aggregated display signal.
func (m *Monitor) Status() domain.StatusSignal {
	m.mu.Lock()
	defer m.mu.Unlock()

	return domain.AggregateStatus(m.accounts)
}

// Subscribe returns a channel that always holds the most recent status
// signal not yet received, and a function that ends the subscription.
func (m *Monitor) Subscribe() (<-chan domain.StatusSignal, func()) {
	ch := make(chan domain.StatusSignal, 1)

	m.mu.Lock()
	id := m.nextSubscriber
	m.nextSubscriber++
	m.subscribers[id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, id)
			m.mu.Unlock()
		})
	}
}

func (m *Monitor) Settings() domain.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.settings
}

func (m *Monitor) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	return m.updateSettings(ctx, func(settings *domain.Settings) {
		settings.NotificationsEnabled = enabled
	})
}

func (m *Monitor) SetOpenAtLogin(ctx context.Context, enabled bool) error {
	return m.updateSettings(ctx, func(settings *domain.Settings) {
		settings.OpenAtLogin = enabled
	})
}

func (m *Monitor) updateSettings(ctx context.Context, apply func(*domain.Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	updated, err := m.store.LoadSettings(ctx)
	if err != nil {
		return err
	}
	apply(&updated)
	if err := m.store.SaveSettings(ctx, updated); err != nil {
		return err
	}

	m.settings = updated
	return nil
}

// Wait blocks until the background fetches started by Add have finished.
func (m *Monitor) Wait() {
	m.background.Wait()
}

func (m *Monitor) indexLocked(id domain.AccountID) int {
	for i := range m.accounts {
		if m.accounts[i].ID == id {
			return i
		}
	}

	return -1
}

func (m *Monitor) findLocked(id domain.AccountID) *domain.Account {
	index := m.indexLocked(id)
	if index < 0 {
		return nil
	}

	return &m.accounts[index]
}

func (m *Monitor) snapshotLocked() []domain.Account {
	accounts := make([]domain.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		accounts = append(accounts, cloneAccount(account))
	}

	return accounts
}

// persistLocked writes the full collection after a structural change. Callers
// refresh from the store first so edits made elsewhere are carried over. A
// failed write is only logged; the next one repairs it.
func (m *Monitor) persistLocked(ctx context.Context) {
	if err := m.store.SaveAll(ctx, m.snapshotLocked()); err != nil {
		m.logger.Warn("persist accounts failed", "err", err)
	}
}

func (m *Monitor) publishLocked() {
	signal := domain.AggregateStatus(m.accounts)
	for _, ch := range m.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- signal
	}
}

func cloneAccount(account domain.Account) domain.Account {
	account.Session.ResetsAt = cloneTime(account.Session.ResetsAt)
	account.Weekly.ResetsAt = cloneTime(account.Weekly.ResetsAt)
	account.Secondary.ResetsAt = cloneTime(account.Secondary.ResetsAt)
	return account
}
