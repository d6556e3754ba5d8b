package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sp3dr4/wren/internal/domain"
)

type MockURLRepository struct {
	mock.Mock
}

func (r *MockURLRepository) Create(ctx context.Context, url *domain.URL) (*domain.URL, error) {
	args := r.Called(ctx, url)
	created, _ := args.Get(0).(*domain.URL)
	return created, args.Error(1)
}

func (r *MockURLRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error) {
	args := r.Called(ctx, shortCode)
	url, _ := args.Get(0).(*domain.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) IncrementClicks(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func (r *MockURLRepository) Close() error {
	return nil
}

func (r *MockURLRepository) HealthCheck(ctx context.Context) error {
	return nil
}

// sequenceGenerator hands out codes in order and records how often it ran.
type sequenceGenerator struct {
	codes []string
	calls int
}

func (g *sequenceGenerator) Generate(length int) (string, error) {
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code, nil
}
