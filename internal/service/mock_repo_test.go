package service_test

import (
	"context"
	"strings"
	"sync"

	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/model"
)

// MockCustomerRepo stores customers in memory
type MockCustomerRepo struct {
	mu        sync.Mutex
	customers []model.Customer
	nextID    int64

	// InsertErr, when set, is returned by every Insert
	InsertErr error
}

func (m *MockCustomerRepo) Insert(_ context.Context, c model.Customer) (model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertErr != nil {
		return model.Customer{}, m.InsertErr
	}
	for _, existing := range m.customers {
		if existing.Email == c.Email {
			return model.Customer{}, appErrors.NewDuplicateEmail(c.Email, nil)
		}
	}
	m.nextID++
	c.ID = m.nextID
	m.customers = append(m.customers, c)
	return c, nil
}

func (m *MockCustomerRepo) FindByID(_ context.Context, id int64) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.customers {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockCustomerRepo) FindByEmail(_ context.Context, email string) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.customers {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockCustomerRepo) FindByFirstNameContains(_ context.Context, substring string) ([]model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := []model.Customer{}
	for _, c := range m.customers {
		if strings.Contains(strings.ToLower(c.FirstName), strings.ToLower(substring)) {
			found = append(found, c)
		}
	}
	return found, nil
}

func (m *MockCustomerRepo) ListAll(_ context.Context) ([]model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]model.Customer{}, m.customers...), nil
}

// MockQueue records published payloads
type MockQueue struct {
	mu         sync.Mutex
	Published  []any
	PublishErr error
}

func (q *MockQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.PublishErr != nil {
		return q.PublishErr
	}
	q.Published = append(q.Published, payload)
	return nil
}

func (q *MockQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}
