package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/soleindustrial/plm/internal/domain"
)

var errStoreDown = errors.New("store no disponible")

type fakeSampleRepo struct {
	mu       sync.Mutex
	records  []domain.Sample
	failAll  bool
	inserted int
	updated  int
}

func (f *fakeSampleRepo) List(ctx context.Context) ([]domain.Sample, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	return append([]domain.Sample(nil), f.records...), nil
}

func (f *fakeSampleRepo) Insert(ctx context.Context, s *domain.Sample) error {
	if f.failAll {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *s)
	f.inserted++
	return nil
}

func (f *fakeSampleRepo) Update(ctx context.Context, s *domain.Sample) error {
	if f.failAll {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == s.ID {
			f.records[i] = *s
		}
	}
	f.updated++
	return nil
}

type fakeInspectionRepo struct {
	mu      sync.Mutex
	records []domain.Inspection
	failAll bool
}

func (f *fakeInspectionRepo) List(ctx context.Context) ([]domain.Inspection, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	return append([]domain.Inspection(nil), f.records...), nil
}

func (f *fakeInspectionRepo) Insert(ctx context.Context, i *domain.Inspection) error {
	if f.failAll {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *i)
	return nil
}

type fakeSheetRepo struct {
	mu      sync.Mutex
	records []domain.TechnicalSheet
	failAll bool
}

func (f *fakeSheetRepo) List(ctx context.Context) ([]domain.TechnicalSheet, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	return append([]domain.TechnicalSheet(nil), f.records...), nil
}

func (f *fakeSheetRepo) Insert(ctx context.Context, sh *domain.TechnicalSheet) error {
	if f.failAll {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *sh)
	return nil
}

type fakeProviderRepo struct {
	mu      sync.Mutex
	records []domain.Provider
	failAll bool
}

func (f *fakeProviderRepo) List(ctx context.Context) ([]domain.Provider, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	return append([]domain.Provider(nil), f.records...), nil
}

func (f *fakeProviderRepo) Insert(ctx context.Context, p *domain.Provider) error {
	if f.failAll {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *p)
	return nil
}

func (f *fakeProviderRepo) Update(ctx context.Context, p *domain.Provider) error {
	if f.failAll {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == p.ID {
			f.records[i] = *p
		}
	}
	return nil
}

func (f *fakeProviderRepo) Delete(ctx context.Context, id string) error {
	if f.failAll {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	records []domain.User
	failAll bool
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	return append([]domain.User(nil), f.records...), nil
}

func (f *fakeUserRepo) Insert(ctx context.Context, u *domain.User) error {
	if f.failAll {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *u)
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if f.failAll {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if strings.EqualFold(f.records[i].Email, email) {
			u := f.records[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, collection string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[collection]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return raw, nil
}

func (c *fakeCache) Set(ctx context.Context, collection string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[collection] = data
	return nil
}

func sessionFor(role domain.Role) *domain.Session {
	return &domain.Session{Name: "Operador", Email: "op@sole.com.pe", Role: role, EffectiveRole: role}
}
