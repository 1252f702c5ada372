package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

// MockGoalRepository is a mock implementation of GoalRepository.
type MockGoalRepository struct {
	mu    sync.RWMutex
	goals map[string]*domain.Goal

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, goal *domain.Goal) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Goal, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Goal, error)
	IncrementBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
	ListByOwnerFunc      func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Goal, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Goal, error)
}

func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		goals: make(map[string]*domain.Goal),
	}
}

// Seed adds a goal directly to the in-memory store.
func (m *MockGoalRepository) Seed(goal *domain.Goal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[goal.ID] = goal
}

func (m *MockGoalRepository) Create(ctx context.Context, tx usecase.Transaction, goal *domain.Goal) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, goal)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[goal.ID] = goal
	return nil
}

func (m *MockGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if goal, ok := m.goals[id]; ok {
		return goal, nil
	}
	return nil, domain.ErrGoalNotFound
}

func (m *MockGoalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Goal, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockGoalRepository) IncrementBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	if m.IncrementBalanceFunc != nil {
		return m.IncrementBalanceFunc(ctx, tx, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, ok := m.goals[id]
	if !ok {
		return domain.ErrGoalNotFound
	}
	goal.CurrentBalance = goal.CurrentBalance.Add(delta)
	goal.Version++
	goal.UpdatedAt = updatedAt
	return nil
}

func (m *MockGoalRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Goal, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var goals []*domain.Goal
	for _, goal := range m.goals {
		if goal.OwnerID == ownerID {
			goals = append(goals, goal)
		}
	}
	return goals, nil
}

func (m *MockGoalRepository) List(ctx context.Context, limit, offset int) ([]*domain.Goal, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var goals []*domain.Goal
	for _, goal := range m.goals {
		goals = append(goals, goal)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.Transaction, error)
	UpdateStatusFunc        func(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, description string, resolvedAt time.Time) error
	ListByOwnerFunc         func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	ListPendingFunc         func(ctx context.Context, ownerID *string) ([]*domain.Transaction, error)
	ListEffectiveByGoalFunc func(ctx context.Context, goalID string) ([]*domain.Transaction, error)
	ListAllByDateFunc       func(ctx context.Context) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

// Seed adds a transaction directly to the in-memory store.
func (m *MockTransactionRepository) Seed(txn *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if txn.IdempotencyKey != nil {
		for _, existing := range m.transactions {
			if existing.IdempotencyKey != nil && *existing.IdempotencyKey == *txn.IdempotencyKey {
				return domain.ErrDuplicateIdempotencyKey
			}
		}
	}
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.transactions {
		if txn.IdempotencyKey != nil && *txn.IdempotencyKey == key {
			return txn, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, description string, resolvedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, description, resolvedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.Status = status
	txn.Description = description
	txn.ResolvedAt = &resolvedAt
	return nil
}

func (m *MockTransactionRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.OwnerID == ownerID {
			txns = append(txns, txn)
		}
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].Date.After(txns[j].Date) })
	return txns, nil
}

func (m *MockTransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		txns = append(txns, txn)
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].Date.After(txns[j].Date) })
	return txns, nil
}

func (m *MockTransactionRepository) ListPending(ctx context.Context, ownerID *string) ([]*domain.Transaction, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.Type != domain.TypeWithdrawal || txn.Status != domain.StatusPending {
			continue
		}
		if ownerID != nil && txn.OwnerID != *ownerID {
			continue
		}
		txns = append(txns, txn)
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].Date.Before(txns[j].Date) })
	return txns, nil
}

func (m *MockTransactionRepository) ListEffectiveByGoal(ctx context.Context, goalID string) ([]*domain.Transaction, error) {
	if m.ListEffectiveByGoalFunc != nil {
		return m.ListEffectiveByGoalFunc(ctx, goalID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.GoalID == nil || *txn.GoalID != goalID || !txn.Effective() {
			continue
		}
		txns = append(txns, txn)
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].Date.Before(txns[j].Date) })
	return txns, nil
}

func (m *MockTransactionRepository) ListAllByDate(ctx context.Context) ([]*domain.Transaction, error) {
	if m.ListAllByDateFunc != nil {
		return m.ListAllByDateFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		txns = append(txns, txn)
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].Date.Before(txns[j].Date) })
	return txns, nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc            func(ctx context.Context, user *domain.User) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.User, error)
	UpdateLastDepositFunc func(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) UpdateLastDeposit(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	if m.UpdateLastDepositFunc != nil {
		return m.UpdateLastDepositFunc(ctx, tx, id, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		user.LastDepositAt = &at
	}
	return nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns all recorded events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, event := range m.events {
		if !event.Published {
			events = append(events, event)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			event.Published = true
			event.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, event := range m.events {
		if !event.Published || event.PublishedAt == nil || !event.PublishedAt.Before(before) {
			kept = append(kept, event)
		}
	}
	m.events = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

// Logs returns all recorded audit logs.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return m.Logs(), nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}
