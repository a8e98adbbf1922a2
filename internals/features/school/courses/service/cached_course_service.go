package service

import (
	"context"
	"time"

	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/features/school/courses/dto"
	helper "schoolku_backend/internals/helpers"
)

// CacheName dipakai service lain (department) sebagai dependent prefix.
const CacheName = "CourseService"

type CachedCourseService struct {
	base  Service
	store *cache.Store
	ttl   time.Duration
}

type coursePage struct {
	Items []dto.CourseResponse
	Total int64
}

func WithCache(base Service, store *cache.Store, ttl time.Duration) *CachedCourseService {
	return &CachedCourseService{base: base, store: store, ttl: ttl}
}

func (s *CachedCourseService) List(ctx context.Context, p helper.Paging) ([]dto.CourseResponse, int64, error) {
	key := cache.Key(CacheName, "List", p.Page, p.PerPage, p.Search)
	page, err := cache.GetOrLoad(ctx, s.store, key, s.ttl, func(ctx context.Context) (coursePage, error) {
		items, total, err := s.base.List(ctx, p)
		return coursePage{Items: items, Total: total}, err
	})
	return page.Items, page.Total, err
}

func (s *CachedCourseService) ByDepartment(ctx context.Context, departmentID uint) ([]dto.CourseResponse, error) {
	return cache.GetOrLoad(ctx, s.store, cache.Key(CacheName, "ByDepartment", departmentID), s.ttl, func(ctx context.Context) ([]dto.CourseResponse, error) {
		return s.base.ByDepartment(ctx, departmentID)
	})
}

func (s *CachedCourseService) GetByID(ctx context.Context, id uint) (*dto.CourseResponse, error) {
	return cache.GetOrLoad(ctx, s.store, cache.Key(CacheName, "GetByID", id), s.ttl, func(ctx context.Context) (*dto.CourseResponse, error) {
		return s.base.GetByID(ctx, id)
	})
}

func (s *CachedCourseService) Create(ctx context.Context, actor string, req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	out, err := s.base.Create(ctx, actor, req)
	return out, s.after(err)
}

func (s *CachedCourseService) Update(ctx context.Context, actor string, id uint, req dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	out, err := s.base.Update(ctx, actor, id, req)
	return out, s.after(err)
}

func (s *CachedCourseService) Delete(ctx context.Context, actor string, id uint) error {
	return s.after(s.base.Delete(ctx, actor, id))
}

func (s *CachedCourseService) after(err error) error {
	if err == nil {
		s.store.RemovePrefix(cache.Prefix(CacheName))
	}
	return err
}
