package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// MockAccessStore is a mock implementation of AccessStore for testing
type MockAccessStore struct {
	mu       sync.RWMutex
	grants   map[string][]*domain.AccessGrant // objectID -> grants
	failNext error
}

// NewMockAccessStore creates a new MockAccessStore
func NewMockAccessStore() *MockAccessStore {
	return &MockAccessStore{
		grants: make(map[string][]*domain.AccessGrant),
	}
}

func (m *MockAccessStore) GetGrants(ctx context.Context, objectID string) ([]*domain.AccessGrant, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AccessGrant(nil), m.grants[objectID]...), nil
}

func (m *MockAccessStore) GetGrantsBatch(ctx context.Context, objectIDs []string) (map[string][]*domain.AccessGrant, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string][]*domain.AccessGrant)
	for _, id := range objectIDs {
		if grants, ok := m.grants[id]; ok {
			result[id] = append([]*domain.AccessGrant(nil), grants...)
		}
	}
	return result, nil
}

func (m *MockAccessStore) SaveGrant(ctx context.Context, grant *domain.AccessGrant) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, g := range m.grants[grant.ObjectID] {
		if g.PrincipalType == grant.PrincipalType && g.PrincipalID == grant.PrincipalID {
			m.grants[grant.ObjectID][i] = grant
			return nil
		}
	}
	m.grants[grant.ObjectID] = append(m.grants[grant.ObjectID], grant)
	return nil
}

func (m *MockAccessStore) DeleteGrant(ctx context.Context, objectID string, principalType domain.PrincipalType, principalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	grants := m.grants[objectID]
	for i, g := range grants {
		if g.PrincipalType == principalType && g.PrincipalID == principalID {
			m.grants[objectID] = append(grants[:i], grants[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockAccessStore) DeleteGrantsForObject(ctx context.Context, objectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.grants, objectID)
	return nil
}

// Helper methods for testing

func (m *MockAccessStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants = make(map[string][]*domain.AccessGrant)
}

// SetFailNext makes the next store call return the given error
func (m *MockAccessStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockAccessStore) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}

// MockGroupDirectory is a mock implementation of GroupDirectory for testing
type MockGroupDirectory struct {
	mu            sync.RWMutex
	groups        map[string]*domain.Group
	membership    map[string]bool // userID -> federated membership answer
	failNext      error
	membershipErr error

	GetGroupsCalls int
	LastToken      string
}

// NewMockGroupDirectory creates a new MockGroupDirectory
func NewMockGroupDirectory() *MockGroupDirectory {
	return &MockGroupDirectory{
		groups:     make(map[string]*domain.Group),
		membership: make(map[string]bool),
	}
}

func (m *MockGroupDirectory) GetGroups(ctx context.Context, groupIDs []string) (map[string]*domain.Group, error) {
	m.mu.Lock()
	m.GetGroupsCalls++
	err := m.failNext
	m.failNext = nil
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]*domain.Group)
	for _, id := range groupIDs {
		if group, ok := m.groups[id]; ok {
			result[id] = group
		}
	}
	return result, nil
}

func (m *MockGroupDirectory) CheckMembership(ctx context.Context, userID string, federatedGroups []string, token string) (bool, error) {
	m.mu.Lock()
	m.LastToken = token
	err := m.failNext
	m.failNext = nil
	if err == nil {
		err = m.membershipErr
	}
	m.mu.Unlock()
	if err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.membership[userID], nil
}

// Helper methods for testing

// SetGroup seeds a group definition (for test setup)
func (m *MockGroupDirectory) SetGroup(group *domain.Group) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.ID] = group
}

// SetMembership seeds the federated membership answer for a user
func (m *MockGroupDirectory) SetMembership(userID string, member bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.membership[userID] = member
}

// SetFailNext makes the next lookup return the given error
func (m *MockGroupDirectory) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// SetMembershipError makes every CheckMembership call return the given error
func (m *MockGroupDirectory) SetMembershipError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.membershipErr = err
}

func (m *MockGroupDirectory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = make(map[string]*domain.Group)
	m.membership = make(map[string]bool)
	m.failNext = nil
	m.membershipErr = nil
	m.GetGroupsCalls = 0
	m.LastToken = ""
}
