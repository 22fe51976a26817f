package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
)

// Store keeps clients and accounts in maps guarded by mu. Each account also
// has its own row lock, a 1-buffered channel, held by at most one unit of
// work at a time.
type Store struct {
	mu          sync.RWMutex
	clients     map[int64]domain.Client
	accounts    map[int64]domain.Account
	byNumber    map[string]int64
	rowLocks    map[string]chan struct{}
	lastClient  int64
	lastAccount int64

	lockTimeout time.Duration
}

// NewStore creates an empty store. A positive lockTimeout bounds every row
// lock wait; zero leaves the wait bounded by the caller's context only.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		clients:     make(map[int64]domain.Client),
		accounts:    make(map[int64]domain.Account),
		byNumber:    make(map[string]int64),
		rowLocks:    make(map[string]chan struct{}),
		lockTimeout: lockTimeout,
	}
}

func (s *Store) GetClient(ctx context.Context, id int64) (domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return domain.Client{}, &domain.ClientNotFoundError{ID: id}
	}

	return client, nil
}

func (s *Store) ClientExists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.clients[id]
	return ok, nil
}

func (s *Store) SaveClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client.ID == 0 {
		s.lastClient++
		client.ID = s.lastClient
	}

	s.clients[client.ID] = client
	return client, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[account.ClientID]; !ok {
		return domain.Account{}, &domain.ClientNotFoundError{ID: account.ClientID}
	}

	if id, taken := s.byNumber[account.Number]; taken && id != account.ID {
		return domain.Account{}, &domain.AccountExistsError{Number: account.Number}
	}

	if account.ID == 0 {
		s.lastAccount++
		account.ID = s.lastAccount
		s.rowLocks[account.Number] = make(chan struct{}, 1)
	}

	s.accounts[account.ID] = account
	s.byNumber[account.Number] = account.ID
	return account, nil
}

func (s *Store) ListAccountsByClient(ctx context.Context, clientID int64) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if account.ClientID == clientID {
			res = append(res, account)
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// WithinTransaction runs txFn against a unit of work whose writes are staged
// and applied together only if txFn succeeds. Row locks are released on
// every path.
func (s *Store) WithinTransaction(ctx context.Context, txFn domain.TxFunc) error {
	uow := &unitOfWork{
		store:  s,
		held:   make(map[string]chan struct{}, 2),
		staged: make(map[int64]domain.Account, 2),
	}
	defer uow.release()

	if err := txFn(ctx, uow); err != nil {
		return err
	}

	return uow.commit()
}

func (s *Store) rowLock(number string) (chan struct{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lock, ok := s.rowLocks[number]
	return lock, ok
}

func (s *Store) accountByNumber(number string) (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byNumber[number]
	if !ok {
		return domain.Account{}, false
	}

	return s.accounts[id], true
}

type unitOfWork struct {
	store  *Store
	held   map[string]chan struct{}
	staged map[int64]domain.Account
}

func (u *unitOfWork) LockAccountByNumber(ctx context.Context, number string) (domain.Account, error) {
	lock, ok := u.store.rowLock(number)
	if !ok {
		return domain.Account{}, &domain.AccountNotFoundError{Number: number}
	}

	if _, mine := u.held[number]; !mine {
		if err := u.acquire(ctx, lock); err != nil {
			return domain.Account{}, err
		}
		u.held[number] = lock
	}

	account, ok := u.store.accountByNumber(number)
	if !ok {
		return domain.Account{}, &domain.AccountNotFoundError{Number: number}
	}

	if staged, ok := u.staged[account.ID]; ok {
		return staged, nil
	}

	return account, nil
}

func (u *unitOfWork) acquire(ctx context.Context, lock chan struct{}) error {
	if u.store.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.store.lockTimeout)
		defer cancel()
	}

	select {
	case lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		msg := "lock wait cancelled"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = "lock wait timed out"
		}
		return &domain.ConcurrencyError{Msg: msg, Err: ctx.Err()}
	}
}

func (u *unitOfWork) SaveAccounts(ctx context.Context, accounts ...domain.Account) error {
	for _, account := range accounts {
		if _, mine := u.held[account.Number]; !mine {
			return &domain.StoreError{Op: "save accounts", Err: errors.New("account " + account.Number + " is not locked by this unit of work")}
		}
		u.staged[account.ID] = account
	}

	return nil
}

func (u *unitOfWork) commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for id := range u.staged {
		if _, ok := u.store.accounts[id]; !ok {
			return &domain.StoreError{Op: "commit", Err: errors.New("account vanished during unit of work")}
		}
	}

	for id, account := range u.staged {
		u.store.accounts[id] = account
	}

	return nil
}

func (u *unitOfWork) release() {
	for number, lock := range u.held {
		<-lock
		delete(u.held, number)
	}
}

var (
	_ domain.ClientRepository  = (*Store)(nil)
	_ domain.AccountRepository = (*Store)(nil)
	_ domain.TxManager         = (*Store)(nil)
)
