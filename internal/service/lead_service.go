package service

import (
	"context"
	"strings"
	"time"

	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/broker/kafka"
	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/leads"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/idgen"
)

const defaultLeadSource = "website"

// LeadService handles vendor inquiries and their pipeline
type LeadService struct {
	leadRepo   *repository.LeadRepo
	vendorRepo *repository.VendorRepo
	events     kafka.Publisher
}

// NewLeadService creates a new LeadService
func NewLeadService(repos *repository.Repositories, events kafka.Publisher) *LeadService {
	return &LeadService{
		leadRepo:   repos.Lead,
		vendorRepo: repos.Vendor,
		events:     events,
	}
}

// CreateLeadRequest represents a public inquiry
type CreateLeadRequest struct {
	VendorId   string `json:"vendor_id"`
	WeddingId  string `json:"wedding_id,omitempty"`
	CoupleName string `json:"couple_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	EventDate  int64  `json:"event_date"`
	Budget     int64  `json:"budget"`
	GuestCount int    `json:"guest_count"`
	EventCount int    `json:"event_count"`
	Message    string `json:"message"`
	Source     string `json:"source,omitempty"`
}

// LeadView is a lead with its score breakdown
type LeadView struct {
	*entity.VendorLead
	Breakdown leads.Breakdown `json:"breakdown"`
}

// Create captures and scores an inquiry
func (s *LeadService) Create(ctx context.Context, req *CreateLeadRequest) (*LeadView, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.CoupleName) == "" || !strings.Contains(email, "@") {
		return nil, errcode.ErrInvalidParam
	}
	if req.Budget < 0 || req.GuestCount < 0 || req.EventCount < 0 {
		return nil, errcode.ErrInvalidParam
	}

	v, err := s.vendorRepo.GetById(ctx, req.VendorId)
	if err != nil {
		log.CtxError(ctx, "get vendor failed: vendor_id=%s, error=%v", req.VendorId, err)
		return nil, errcode.ErrInternalServer
	}
	if v == nil {
		return nil, errcode.ErrVendorNotFound
	}

	breakdown := leads.Score(leads.Input{
		Budget:        req.Budget,
		StartingPrice: v.StartingPrice,
		EventDate:     req.EventDate,
		GuestCount:    req.GuestCount,
		EventCount:    req.EventCount,
		Message:       req.Message,
		Phone:         req.Phone,
	}, time.Now())

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate lead id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	source := req.Source
	if source == "" {
		source = defaultLeadSource
	}
	l := &entity.VendorLead{
		Id:         id,
		VendorId:   v.Id,
		WeddingId:  req.WeddingId,
		CoupleName: strings.TrimSpace(req.CoupleName),
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		EventDate:  req.EventDate,
		Budget:     req.Budget,
		GuestCount: req.GuestCount,
		EventCount: req.EventCount,
		Message:    req.Message,
		Source:     source,
		Status:     constant.LeadStatusNew,
		Score:      breakdown.Total,
		Tier:       breakdown.Tier,
	}
	if err := s.leadRepo.Create(ctx, l); err != nil {
		log.CtxError(ctx, "create lead failed: vendor_id=%s, error=%v", v.Id, err)
		return nil, errcode.ErrInternalServer
	}

	publishEvent(ctx, s.events, constant.EventLeadCreated, v.Id, l)
	log.CtxInfo(ctx, "lead created: lead_id=%s, vendor_id=%s, score=%d, tier=%s", id, v.Id, l.Score, l.Tier)
	return &LeadView{VendorLead: l, Breakdown: breakdown}, nil
}

// List lists a vendor's leads, optionally by status
func (s *LeadService) List(ctx context.Context, userId, vendorId, status string) ([]*entity.VendorLead, error) {
	if _, err := ownedVendor(ctx, s.vendorRepo, userId, vendorId); err != nil {
		return nil, err
	}
	if status != "" && !entity.ValidLeadStatus(status) {
		return nil, errcode.ErrLeadStatus
	}
	ls, err := s.leadRepo.ListByVendor(ctx, vendorId, status)
	if err != nil {
		log.CtxError(ctx, "list leads failed: vendor_id=%s, error=%v", vendorId, err)
		return nil, errcode.ErrInternalServer
	}
	return ls, nil
}

// UpdateLeadStatusRequest represents a pipeline move
type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a lead to another pipeline status
func (s *LeadService) UpdateStatus(ctx context.Context, userId, leadId, status string) (*entity.VendorLead, error) {
	if !entity.ValidLeadStatus(status) {
		return nil, errcode.ErrLeadStatus
	}
	l, err := s.leadRepo.GetById(ctx, leadId)
	if err != nil {
		log.CtxError(ctx, "get lead failed: lead_id=%s, error=%v", leadId, err)
		return nil, errcode.ErrInternalServer
	}
	if l == nil {
		return nil, errcode.ErrLeadNotFound
	}
	if _, err := ownedVendor(ctx, s.vendorRepo, userId, l.VendorId); err != nil {
		return nil, err
	}

	if err := s.leadRepo.UpdateStatus(ctx, leadId, status); err != nil {
		log.CtxError(ctx, "update lead status failed: lead_id=%s, error=%v", leadId, err)
		return nil, errcode.ErrInternalServer
	}
	l.Status = status
	return l, nil
}

// Analytics summarizes the vendor's pipeline
func (s *LeadService) Analytics(ctx context.Context, userId, vendorId string) (*leads.Analytics, error) {
	if _, err := ownedVendor(ctx, s.vendorRepo, userId, vendorId); err != nil {
		return nil, err
	}
	ls, err := s.leadRepo.ListByVendor(ctx, vendorId, "")
	if err != nil {
		log.CtxError(ctx, "list leads failed: vendor_id=%s, error=%v", vendorId, err)
		return nil, errcode.ErrInternalServer
	}
	return leads.Analyze(ls), nil
}
