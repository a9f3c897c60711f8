// internal/service/customer_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/model"
	"github.com/unclebandit/customer-service/internal/queue"
	"github.com/unclebandit/customer-service/internal/repository"
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Queue        queue.Queue // optional
	Validate     *validator.Validate
	Now          func() time.Time
}

func NewCustomerService(repo repository.CustomerRepositoryInterface, q queue.Queue) *CustomerService {
	return &CustomerService{
		CustomerRepo: repo,
		Queue:        q,
		Validate:     validator.New(),
		Now:          time.Now,
	}
}

// CreateCustomer validates the input, stores the customer and announces it on
// the customer events topic. A failed publish is logged; the customer stays stored.
func (s *CustomerService) CreateCustomer(ctx context.Context, firstName, lastName, email string) (*model.Customer, error) {
	c := model.Customer{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.TrimSpace(email),
	}

	if err := s.validator().Struct(c); err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrInvalidCustomer, err)
	}

	stored, err := s.CustomerRepo.Insert(ctx, c)
	if err != nil {
		return nil, err
	}

	if s.Queue != nil {
		ev := queue.CustomerCreatedEvent{
			CustomerID: stored.ID,
			FirstName:  stored.FirstName,
			LastName:   stored.LastName,
			Email:      stored.Email,
			CreatedAt:  s.now(),
		}
		if err := s.Queue.Publish(queue.TopicCustomerEvents, ev); err != nil {
			log.Warn().Err(err).Int64("customer_id", stored.ID).Msg("⚠️ failed to publish customer event")
		}
	}

	return &stored, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.CustomerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.NewCustomerNotFoundByID(id)
	}
	return c, nil
}

func (s *CustomerService) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	c, err := s.CustomerRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.NewCustomerNotFoundByEmail(email)
	}
	return c, nil
}

func (s *CustomerService) SearchByFirstName(ctx context.Context, q string) ([]model.Customer, error) {
	return s.CustomerRepo.FindByFirstNameContains(ctx, q)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.CustomerRepo.ListAll(ctx)
}

func (s *CustomerService) validator() *validator.Validate {
	if s.Validate == nil {
		s.Validate = validator.New()
	}
	return s.Validate
}

func (s *CustomerService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
