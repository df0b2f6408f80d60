package service

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/broker/kafka"
	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/idgen"
)

const contractStatusActive = "active"

// BookingService handles bookings and contracts between weddings and vendors
type BookingService struct {
	bookingRepo *repository.BookingRepo
	weddingRepo *repository.WeddingRepo
	vendorRepo  *repository.VendorRepo
	events      kafka.Publisher
}

// NewBookingService creates a new BookingService
func NewBookingService(repos *repository.Repositories, events kafka.Publisher) *BookingService {
	return &BookingService{
		bookingRepo: repos.Booking,
		weddingRepo: repos.Wedding,
		vendorRepo:  repos.Vendor,
		events:      events,
	}
}

// CreateBookingRequest represents a booking inquiry from a couple
type CreateBookingRequest struct {
	WeddingId string `json:"wedding_id"`
	VendorId  string `json:"vendor_id"`
	EventId   string `json:"event_id,omitempty"`
	Amount    int64  `json:"amount"`
	Notes     string `json:"notes"`
}

// Create opens a booking in inquiry status
func (s *BookingService) Create(ctx context.Context, userId string, req *CreateBookingRequest) (*entity.Booking, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, req.WeddingId); err != nil {
		return nil, err
	}
	if req.Amount < 0 {
		return nil, errcode.ErrInvalidAmount
	}

	v, err := s.vendorRepo.GetById(ctx, req.VendorId)
	if err != nil {
		log.CtxError(ctx, "get vendor failed: vendor_id=%s, error=%v", req.VendorId, err)
		return nil, errcode.ErrInternalServer
	}
	if v == nil {
		return nil, errcode.ErrVendorNotFound
	}

	if req.EventId != "" {
		e, err := s.weddingRepo.GetEvent(ctx, req.EventId)
		if err != nil {
			log.CtxError(ctx, "get event failed: event_id=%s, error=%v", req.EventId, err)
			return nil, errcode.ErrInternalServer
		}
		if e == nil || e.WeddingId != req.WeddingId {
			return nil, errcode.ErrEventNotFound
		}
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate booking id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	b := &entity.Booking{
		Id:        id,
		WeddingId: req.WeddingId,
		VendorId:  req.VendorId,
		EventId:   req.EventId,
		Status:    constant.BookingStatusInquiry,
		Amount:    req.Amount,
		Notes:     req.Notes,
	}
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		log.CtxError(ctx, "create booking failed: wedding_id=%s, vendor_id=%s, error=%v", req.WeddingId, req.VendorId, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "booking created: booking_id=%s, wedding_id=%s, vendor_id=%s", id, req.WeddingId, req.VendorId)
	return b, nil
}

// ListByVendor lists bookings of a vendor the caller manages
func (s *BookingService) ListByVendor(ctx context.Context, userId, vendorId string) ([]*entity.Booking, error) {
	if _, err := ownedVendor(ctx, s.vendorRepo, userId, vendorId); err != nil {
		return nil, err
	}
	bs, err := s.bookingRepo.ListByVendor(ctx, vendorId)
	if err != nil {
		log.CtxError(ctx, "list bookings failed: vendor_id=%s, error=%v", vendorId, err)
		return nil, errcode.ErrInternalServer
	}
	return bs, nil
}

// ListByWedding lists bookings of the caller's wedding
func (s *BookingService) ListByWedding(ctx context.Context, userId, weddingId string) ([]*entity.Booking, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	bs, err := s.bookingRepo.ListByWedding(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "list bookings failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	return bs, nil
}

// getBooking loads a booking and reports which side the caller is on
func (s *BookingService) getBooking(ctx context.Context, userId, bookingId string) (*entity.Booking, string, error) {
	b, err := s.bookingRepo.GetById(ctx, bookingId)
	if err != nil {
		log.CtxError(ctx, "get booking failed: booking_id=%s, error=%v", bookingId, err)
		return nil, "", errcode.ErrInternalServer
	}
	if b == nil {
		return nil, "", errcode.ErrBookingNotFound
	}

	if _, err := ownedWedding(ctx, s.weddingRepo, userId, b.WeddingId); err == nil {
		return b, constant.RoleCouple, nil
	} else if !errcode.ErrNoPermission.Is(err) {
		return nil, "", err
	}
	if _, err := ownedVendor(ctx, s.vendorRepo, userId, b.VendorId); err != nil {
		return nil, "", err
	}
	return b, constant.RoleVendor, nil
}

// UpdateStatusRequest represents a booking status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// BookingStatusChanged is the payload of booking.status_changed
type BookingStatusChanged struct {
	BookingId string `json:"booking_id"`
	WeddingId string `json:"wedding_id"`
	VendorId  string `json:"vendor_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedBy string `json:"changed_by"`
}

// UpdateStatus moves a booking along its lifecycle. Vendors confirm or
// decline; couples cancel.
func (s *BookingService) UpdateStatus(ctx context.Context, userId, bookingId, status string) (*entity.Booking, error) {
	b, side, err := s.getBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}
	if !b.CanTransition(status, side) {
		return nil, errcode.ErrBookingTransition
	}

	ok, err := s.bookingRepo.UpdateStatus(ctx, bookingId, b.Status, status)
	if err != nil {
		log.CtxError(ctx, "update booking status failed: booking_id=%s, error=%v", bookingId, err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		return nil, errcode.ErrBookingTransition
	}

	from := b.Status
	b.Status = status
	publishEvent(ctx, s.events, constant.EventBookingStatusChanged, b.Id, &BookingStatusChanged{
		BookingId: b.Id,
		WeddingId: b.WeddingId,
		VendorId:  b.VendorId,
		From:      from,
		To:        status,
		ChangedBy: userId,
	})

	log.CtxInfo(ctx, "booking status changed: booking_id=%s, from=%s, to=%s, by=%s", b.Id, from, status, userId)
	return b, nil
}

// CreateContractRequest represents a contract for a booking
type CreateContractRequest struct {
	BookingId   string             `json:"booking_id"`
	TotalAmount int64              `json:"total_amount"`
	Milestones  []entity.Milestone `json:"payment_milestones"`
}

// ContractView is a contract with its milestones decoded
type ContractView struct {
	*entity.Contract
	PaymentMilestones []entity.Milestone `json:"payment_milestones"`
}

func newContractView(c *entity.Contract) *ContractView {
	return &ContractView{Contract: c, PaymentMilestones: c.Milestones()}
}

// CreateContract records the payment schedule agreed for a booking
func (s *BookingService) CreateContract(ctx context.Context, userId string, req *CreateContractRequest) (*ContractView, error) {
	b, _, err := s.getBooking(ctx, userId, req.BookingId)
	if err != nil {
		return nil, err
	}
	if req.TotalAmount < 0 {
		return nil, errcode.ErrInvalidAmount
	}
	for i := range req.Milestones {
		m := &req.Milestones[i]
		if m.Amount < 0 {
			return nil, errcode.ErrInvalidAmount
		}
		if m.Status == "" {
			m.Status = entity.MilestoneStatusPending
		}
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate contract id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	c := &entity.Contract{
		Id:          id,
		BookingId:   b.Id,
		WeddingId:   b.WeddingId,
		VendorId:    b.VendorId,
		TotalAmount: req.TotalAmount,
		Status:      contractStatusActive,
	}
	if err := c.SetMilestones(req.Milestones); err != nil {
		return nil, errcode.ErrInvalidParam
	}
	if err := s.bookingRepo.CreateContract(ctx, c); err != nil {
		log.CtxError(ctx, "create contract failed: booking_id=%s, error=%v", b.Id, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "contract created: contract_id=%s, booking_id=%s, milestones=%d", id, b.Id, len(req.Milestones))
	return newContractView(c), nil
}

// ListContracts lists contracts of the caller's wedding
func (s *BookingService) ListContracts(ctx context.Context, userId, weddingId string) ([]*ContractView, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	cs, err := s.bookingRepo.ListContractsByWedding(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "list contracts failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}

	views := make([]*ContractView, 0, len(cs))
	for _, c := range cs {
		views = append(views, newContractView(c))
	}
	return views, nil
}
