package service

import (
	"context"
	"time"

	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/features/school/departments/dto"
	helper "schoolku_backend/internals/helpers"
)

const cacheName = "DepartmentService"

// CachedDepartmentService read-through cache di atas Service.
type CachedDepartmentService struct {
	base  Service
	store *cache.Store
	ttl   time.Duration
	// prefix lain yang ikut basi saat department berubah
	dependents []string
}

type departmentPage struct {
	Items []dto.DepartmentResponse
	Total int64
}

// WithCache membungkus base. dependents: nama cache service lain yang
// menampilkan data department (mis. "CourseService").
func WithCache(base Service, store *cache.Store, ttl time.Duration, dependents ...string) *CachedDepartmentService {
	return &CachedDepartmentService{base: base, store: store, ttl: ttl, dependents: dependents}
}

func (s *CachedDepartmentService) List(ctx context.Context, p helper.Paging) ([]dto.DepartmentResponse, int64, error) {
	key := cache.Key(cacheName, "List", p.Page, p.PerPage, p.Search)
	page, err := cache.GetOrLoad(ctx, s.store, key, s.ttl, func(ctx context.Context) (departmentPage, error) {
		items, total, err := s.base.List(ctx, p)
		return departmentPage{Items: items, Total: total}, err
	})
	return page.Items, page.Total, err
}

func (s *CachedDepartmentService) GetByID(ctx context.Context, id uint) (*dto.DepartmentResponse, error) {
	return cache.GetOrLoad(ctx, s.store, cache.Key(cacheName, "GetByID", id), s.ttl, func(ctx context.Context) (*dto.DepartmentResponse, error) {
		return s.base.GetByID(ctx, id)
	})
}

func (s *CachedDepartmentService) Create(ctx context.Context, actor string, req dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	out, err := s.base.Create(ctx, actor, req)
	if err == nil {
		s.invalidate()
	}
	return out, err
}

func (s *CachedDepartmentService) Update(ctx context.Context, actor string, id uint, req dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	out, err := s.base.Update(ctx, actor, id, req)
	if err == nil {
		s.invalidate()
	}
	return out, err
}

func (s *CachedDepartmentService) Delete(ctx context.Context, actor string, id uint) error {
	err := s.base.Delete(ctx, actor, id)
	if err == nil {
		s.invalidate()
	}
	return err
}

func (s *CachedDepartmentService) invalidate() {
	s.store.RemovePrefix(cache.Prefix(cacheName))
	for _, name := range s.dependents {
		s.store.RemovePrefix(cache.Prefix(name))
	}
}
