package service

import (
	"context"
	"strings"

	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/idgen"
)

// VendorService handles marketplace listings
type VendorService struct {
	vendorRepo *repository.VendorRepo
}

// NewVendorService creates a new VendorService
func NewVendorService(repos *repository.Repositories) *VendorService {
	return &VendorService{
		vendorRepo: repos.Vendor,
	}
}

// CreateVendorRequest represents a vendor submission
type CreateVendorRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	City          string `json:"city"`
	Description   string `json:"description"`
	StartingPrice int64  `json:"starting_price"`
}

// Create lists a new vendor. When a vendor with the same normalized name
// already exists in the city, the existing vendor is returned together with
// ErrVendorDuplicate so the caller can resolve the conflict.
func (s *VendorService) Create(ctx context.Context, userId, role string, req *CreateVendorRequest) (*entity.Vendor, error) {
	if role != constant.RoleVendor {
		return nil, errcode.ErrForbidden
	}
	normalized := entity.NormalizeVendorName(req.Name)
	cityKey := entity.NormalizeCity(req.City)
	if normalized == "" || cityKey == "" || strings.TrimSpace(req.Category) == "" {
		return nil, errcode.ErrInvalidParam
	}
	if req.StartingPrice < 0 {
		return nil, errcode.ErrInvalidAmount
	}

	existing, err := s.vendorRepo.FindDuplicate(ctx, normalized, cityKey)
	if err != nil {
		log.CtxError(ctx, "find duplicate vendor failed: name=%s, city=%s, error=%v", normalized, cityKey, err)
		return nil, errcode.ErrInternalServer
	}
	if existing != nil {
		log.CtxInfo(ctx, "duplicate vendor submitted: existing_id=%s, user_id=%s", existing.Id, userId)
		return existing, errcode.ErrVendorDuplicate
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate vendor id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	v := &entity.Vendor{
		Id:             id,
		OwnerUserId:    userId,
		Name:           strings.TrimSpace(req.Name),
		NormalizedName: normalized,
		Category:       strings.ToLower(strings.TrimSpace(req.Category)),
		City:           strings.TrimSpace(req.City),
		CityKey:        cityKey,
		Description:    req.Description,
		StartingPrice:  req.StartingPrice,
	}
	if err := s.vendorRepo.Create(ctx, v); err != nil {
		// A concurrent submission may have won the unique index
		if dup, _ := s.vendorRepo.FindDuplicate(ctx, normalized, cityKey); dup != nil {
			return dup, errcode.ErrVendorDuplicate
		}
		log.CtxError(ctx, "create vendor failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "vendor created: vendor_id=%s, owner_id=%s", id, userId)
	return v, nil
}

// Get returns one vendor
func (s *VendorService) Get(ctx context.Context, vendorId string) (*entity.Vendor, error) {
	v, err := s.vendorRepo.GetById(ctx, vendorId)
	if err != nil {
		log.CtxError(ctx, "get vendor failed: vendor_id=%s, error=%v", vendorId, err)
		return nil, errcode.ErrInternalServer
	}
	if v == nil {
		return nil, errcode.ErrVendorNotFound
	}
	return v, nil
}

// ListVendorsRequest represents marketplace search filters
type ListVendorsRequest struct {
	Category string `query:"category"`
	City     string `query:"city"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

// List searches the marketplace
func (s *VendorService) List(ctx context.Context, req *ListVendorsRequest) ([]*entity.Vendor, error) {
	vs, err := s.vendorRepo.List(ctx, repository.VendorFilter{
		Category: strings.ToLower(strings.TrimSpace(req.Category)),
		CityKey:  entity.NormalizeCity(req.City),
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		log.CtxError(ctx, "list vendors failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return vs, nil
}

// ListMine lists the listings the caller manages
func (s *VendorService) ListMine(ctx context.Context, userId string) ([]*entity.Vendor, error) {
	vs, err := s.vendorRepo.ListByOwner(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list owned vendors failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	return vs, nil
}
