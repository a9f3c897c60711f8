// internal/service/seeder.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/model"
	"github.com/unclebandit/customer-service/internal/repository"
)

// SampleCustomers are inserted on startup.
var SampleCustomers = []model.Customer{
	{FirstName: "Ouattara", LastName: "Mohamed", Email: "mohamed@gmail.com"},
	{FirstName: "Ouattara", LastName: "Bakary", Email: "jobdebakary@gmail.com"},
	{FirstName: "Ouattara", LastName: "Tata", Email: "tata@gmail.com"},
}

type Seeder struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Customers    []model.Customer // defaults to SampleCustomers
}

func NewSeeder(repo repository.CustomerRepositoryInterface) *Seeder {
	return &Seeder{CustomerRepo: repo, Customers: SampleCustomers}
}

// Seed inserts the sample customers in order and returns the ones it stored.
// A customer whose email is already taken is skipped, so running Seed against
// a database that was seeded before is a no-op.
func (s *Seeder) Seed(ctx context.Context) ([]model.Customer, error) {
	customers := s.Customers
	if customers == nil {
		customers = SampleCustomers
	}

	inserted := make([]model.Customer, 0, len(customers))
	for _, c := range customers {
		stored, err := s.CustomerRepo.Insert(ctx, c)
		if errors.Is(err, appErrors.ErrDuplicateEmail) {
			log.Info().Str("email", c.Email).Msg("customer already seeded, skipping")
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("failed to seed %s: %w", c.Email, err)
		}
		inserted = append(inserted, stored)
	}

	log.Info().Int("inserted", len(inserted)).Int("total", len(customers)).Msg("✅ Database seeding completed")
	return inserted, nil
}
