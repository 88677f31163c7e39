package auth

// MockStore is an in-memory store for testing.
type MockStore struct {
	secrets map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{secrets: make(map[string]string)}
}

func (m *MockStore) SetSecret(account string, secret string) error {
	m.secrets[account] = secret
	return nil
}

func (m *MockStore) GetSecret(account string) (string, error) {
	secret, ok := m.secrets[account]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

func (m *MockStore) DeleteSecret(account string) error {
	if _, ok := m.secrets[account]; !ok {
		return ErrNotFound
	}
	delete(m.secrets, account)
	return nil
}
