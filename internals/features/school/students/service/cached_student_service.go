package service

import (
	"context"
	"mime/multipart"
	"time"

	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/features/school/students/dto"
	helper "schoolku_backend/internals/helpers"
)

const cacheName = "StudentService"

// CachedStudentService menyimpan hasil baca profil siswa. Riwayat
// enrollment & dokumen selalu dibaca langsung.
type CachedStudentService struct {
	base  Service
	store *cache.Store
	ttl   time.Duration
}

type studentPage struct {
	Items []dto.StudentResponse
	Total int64
}

func WithCache(base Service, store *cache.Store, ttl time.Duration) *CachedStudentService {
	return &CachedStudentService{base: base, store: store, ttl: ttl}
}

func (s *CachedStudentService) List(ctx context.Context, p helper.Paging, departmentID *uint) ([]dto.StudentResponse, int64, error) {
	dept := uint(0)
	if departmentID != nil {
		dept = *departmentID
	}
	key := cache.Key(cacheName, "List", p.Page, p.PerPage, p.Search, dept)
	page, err := cache.GetOrLoad(ctx, s.store, key, s.ttl, func(ctx context.Context) (studentPage, error) {
		items, total, err := s.base.List(ctx, p, departmentID)
		return studentPage{Items: items, Total: total}, err
	})
	return page.Items, page.Total, err
}

func (s *CachedStudentService) GetByID(ctx context.Context, id uint) (*dto.StudentResponse, error) {
	return cache.GetOrLoad(ctx, s.store, cache.Key(cacheName, "GetByID", id), s.ttl, func(ctx context.Context) (*dto.StudentResponse, error) {
		return s.base.GetByID(ctx, id)
	})
}

func (s *CachedStudentService) GetByStudentNumber(ctx context.Context, number string) (*dto.StudentResponse, error) {
	key := cache.Key(cacheName, "GetByStudentNumber", dto.NormalizeStudentNumber(number))
	return cache.GetOrLoad(ctx, s.store, key, s.ttl, func(ctx context.Context) (*dto.StudentResponse, error) {
		return s.base.GetByStudentNumber(ctx, number)
	})
}

func (s *CachedStudentService) Enrollments(ctx context.Context, id uint) ([]dto.StudentEnrollmentResponse, error) {
	return s.base.Enrollments(ctx, id)
}

func (s *CachedStudentService) Documents(ctx context.Context, id uint) ([]dto.StudentDocumentResponse, error) {
	return s.base.Documents(ctx, id)
}

func (s *CachedStudentService) Create(ctx context.Context, actor string, req dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	out, err := s.base.Create(ctx, actor, req)
	return out, s.after(err)
}

func (s *CachedStudentService) BulkCreate(ctx context.Context, actor string, reqs []dto.CreateStudentRequest) (*helper.BulkResult[dto.StudentResponse], error) {
	out, err := s.base.BulkCreate(ctx, actor, reqs)
	// sebagian item bisa sudah tersimpan walau err != nil
	s.after(nil)
	return out, err
}

func (s *CachedStudentService) Update(ctx context.Context, actor string, id uint, req dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	out, err := s.base.Update(ctx, actor, id, req)
	return out, s.after(err)
}

func (s *CachedStudentService) Delete(ctx context.Context, actor string, id uint) error {
	return s.after(s.base.Delete(ctx, actor, id))
}

func (s *CachedStudentService) UploadPhoto(ctx context.Context, actor string, id uint, fh *multipart.FileHeader) (*dto.StudentResponse, error) {
	out, err := s.base.UploadPhoto(ctx, actor, id, fh)
	return out, s.after(err)
}

func (s *CachedStudentService) UploadDocument(ctx context.Context, actor string, id uint, title string, fh *multipart.FileHeader) (*dto.StudentDocumentResponse, error) {
	return s.base.UploadDocument(ctx, actor, id, title, fh)
}

func (s *CachedStudentService) DeleteDocument(ctx context.Context, actor string, id, documentID uint) error {
	return s.base.DeleteDocument(ctx, actor, id, documentID)
}

// after membuang semua entry StudentService bila operasi tulis sukses.
func (s *CachedStudentService) after(err error) error {
	if err == nil {
		s.store.RemovePrefix(cache.Prefix(cacheName))
	}
	return err
}
