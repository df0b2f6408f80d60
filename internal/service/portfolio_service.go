package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/internal/storage/s3"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/idgen"
)

// PortfolioService handles vendor gallery photos
type PortfolioService struct {
	vendorRepo    *repository.VendorRepo
	uploader      s3.Uploader
	maxUploadSize int64
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(repos *repository.Repositories, uploader s3.Uploader, maxUploadSize int64) *PortfolioService {
	return &PortfolioService{
		vendorRepo:    repos.Vendor,
		uploader:      uploader,
		maxUploadSize: maxUploadSize,
	}
}

// UploadPhotoRequest describes one uploaded file
type UploadPhotoRequest struct {
	Filename    string
	ContentType string
	Size        int64
	Caption     string
	Body        io.Reader
}

// Upload stores a photo in object storage and appends it to the gallery
func (s *PortfolioService) Upload(ctx context.Context, userId, vendorId string, req *UploadPhotoRequest) (*entity.PortfolioPhoto, error) {
	if _, err := ownedVendor(ctx, s.vendorRepo, userId, vendorId); err != nil {
		return nil, err
	}
	if req.Size <= 0 || (s.maxUploadSize > 0 && req.Size > s.maxUploadSize) {
		return nil, errcode.ErrInvalidParam
	}
	if !strings.HasPrefix(req.ContentType, "image/") {
		return nil, errcode.ErrInvalidParam
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate photo id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	key := fmt.Sprintf("vendors/%s/%s%s", vendorId, id, strings.ToLower(path.Ext(req.Filename)))

	url, err := s.uploader.Upload(ctx, key, req.Body, req.Size, req.ContentType)
	if err != nil {
		log.CtxError(ctx, "upload photo failed: vendor_id=%s, key=%s, error=%v", vendorId, key, err)
		return nil, errcode.ErrUploadFailed
	}

	p := &entity.PortfolioPhoto{
		Id:        id,
		VendorId:  vendorId,
		ObjectKey: key,
		URL:       url,
		Caption:   strings.TrimSpace(req.Caption),
	}
	if err := s.vendorRepo.CreatePhoto(ctx, p); err != nil {
		log.CtxError(ctx, "create photo failed: vendor_id=%s, error=%v", vendorId, err)
		if rmErr := s.uploader.Remove(ctx, key); rmErr != nil {
			log.CtxWarn(ctx, "remove orphan object failed: key=%s, error=%v", key, rmErr)
		}
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "portfolio photo uploaded: vendor_id=%s, photo_id=%s, size=%d", vendorId, id, req.Size)
	return p, nil
}

// List lists a vendor's gallery
func (s *PortfolioService) List(ctx context.Context, vendorId string) ([]*entity.PortfolioPhoto, error) {
	ps, err := s.vendorRepo.ListPhotos(ctx, vendorId)
	if err != nil {
		log.CtxError(ctx, "list photos failed: vendor_id=%s, error=%v", vendorId, err)
		return nil, errcode.ErrInternalServer
	}
	return ps, nil
}

// Delete removes a photo from the gallery and from object storage
func (s *PortfolioService) Delete(ctx context.Context, userId, photoId string) error {
	p, err := s.vendorRepo.GetPhoto(ctx, photoId)
	if err != nil {
		log.CtxError(ctx, "get photo failed: photo_id=%s, error=%v", photoId, err)
		return errcode.ErrInternalServer
	}
	if p == nil {
		return errcode.ErrPhotoNotFound
	}
	if _, err := ownedVendor(ctx, s.vendorRepo, userId, p.VendorId); err != nil {
		return err
	}

	if err := s.vendorRepo.DeletePhoto(ctx, photoId); err != nil {
		log.CtxError(ctx, "delete photo failed: photo_id=%s, error=%v", photoId, err)
		return errcode.ErrInternalServer
	}
	if err := s.uploader.Remove(ctx, p.ObjectKey); err != nil {
		log.CtxWarn(ctx, "remove object failed: key=%s, error=%v", p.ObjectKey, err)
	}
	return nil
}
