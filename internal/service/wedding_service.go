package service

import (
	"context"
	"strings"

	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/idgen"
)

const defaultCurrency = "INR"

// WeddingService handles weddings, their events and the public website
type WeddingService struct {
	weddingRepo *repository.WeddingRepo
	widgetRepo  *repository.WidgetRepo
	repos       *repository.Repositories
}

// NewWeddingService creates a new WeddingService
func NewWeddingService(repos *repository.Repositories) *WeddingService {
	return &WeddingService{
		weddingRepo: repos.Wedding,
		widgetRepo:  repos.Widget,
		repos:       repos,
	}
}

// CreateWeddingRequest represents create wedding request
type CreateWeddingRequest struct {
	Title       string `json:"title"`
	PartnerOne  string `json:"partner_one"`
	PartnerTwo  string `json:"partner_two"`
	WeddingDate int64  `json:"wedding_date"`
	City        string `json:"city"`
	TotalBudget int64  `json:"total_budget"`
	Currency    string `json:"currency"`
}

// UpdateWeddingRequest represents a partial wedding update
type UpdateWeddingRequest struct {
	Title       *string `json:"title,omitempty"`
	PartnerOne  *string `json:"partner_one,omitempty"`
	PartnerTwo  *string `json:"partner_two,omitempty"`
	WeddingDate *int64  `json:"wedding_date,omitempty"`
	City        *string `json:"city,omitempty"`
	TotalBudget *int64  `json:"total_budget,omitempty"`
	Currency    *string `json:"currency,omitempty"`
}

// Create creates a wedding and seeds its default dashboard in one transaction
func (s *WeddingService) Create(ctx context.Context, userId, role string, req *CreateWeddingRequest) (*entity.Wedding, error) {
	if role != constant.RoleCouple {
		return nil, errcode.ErrForbidden
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, errcode.ErrInvalidParam
	}
	if req.TotalBudget < 0 {
		return nil, errcode.ErrInvalidAmount
	}

	weddingId, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate wedding id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	w := &entity.Wedding{
		Id:          weddingId,
		OwnerId:     userId,
		Title:       strings.TrimSpace(req.Title),
		PartnerOne:  req.PartnerOne,
		PartnerTwo:  req.PartnerTwo,
		WeddingDate: req.WeddingDate,
		City:        req.City,
		TotalBudget: req.TotalBudget,
		Currency:    currency,
	}

	widgets, err := defaultWidgets(weddingId)
	if err != nil {
		log.CtxError(ctx, "generate widget ids failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.weddingRepo.Create(ctx, tx, w); err != nil {
			return err
		}
		return s.widgetRepo.CreateBatch(ctx, tx, widgets)
	})
	if err != nil {
		log.CtxError(ctx, "create wedding failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "wedding created: wedding_id=%s, owner_id=%s", weddingId, userId)
	return w, nil
}

// Get returns a wedding owned by the caller
func (s *WeddingService) Get(ctx context.Context, userId, weddingId string) (*entity.Wedding, error) {
	return ownedWedding(ctx, s.weddingRepo, userId, weddingId)
}

// List lists the caller's weddings
func (s *WeddingService) List(ctx context.Context, userId string) ([]*entity.Wedding, error) {
	ws, err := s.weddingRepo.ListByOwner(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list weddings failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	return ws, nil
}

// Update applies a partial update to a wedding
func (s *WeddingService) Update(ctx context.Context, userId, weddingId string, req *UpdateWeddingRequest) (*entity.Wedding, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, errcode.ErrInvalidParam
		}
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.PartnerOne != nil {
		updates["partner_one"] = *req.PartnerOne
	}
	if req.PartnerTwo != nil {
		updates["partner_two"] = *req.PartnerTwo
	}
	if req.WeddingDate != nil {
		updates["wedding_date"] = *req.WeddingDate
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.TotalBudget != nil {
		if *req.TotalBudget < 0 {
			return nil, errcode.ErrInvalidAmount
		}
		updates["total_budget"] = *req.TotalBudget
	}
	if req.Currency != nil {
		updates["currency"] = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}

	if len(updates) > 0 {
		if err := s.weddingRepo.Update(ctx, weddingId, updates); err != nil {
			log.CtxError(ctx, "update wedding failed: wedding_id=%s, error=%v", weddingId, err)
			return nil, errcode.ErrInternalServer
		}
	}
	return s.Get(ctx, userId, weddingId)
}

// Delete removes a wedding
func (s *WeddingService) Delete(ctx context.Context, userId, weddingId string) error {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return err
	}
	if err := s.weddingRepo.Delete(ctx, weddingId); err != nil {
		log.CtxError(ctx, "delete wedding failed: wedding_id=%s, error=%v", weddingId, err)
		return errcode.ErrInternalServer
	}
	log.CtxInfo(ctx, "wedding deleted: wedding_id=%s", weddingId)
	return nil
}

// EventRequest represents create/update event request
type EventRequest struct {
	Name       string `json:"name"`
	EventDate  int64  `json:"event_date"`
	Venue      string `json:"venue"`
	GuestCount int    `json:"guest_count"`
}

func (r *EventRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" || r.GuestCount < 0 {
		return errcode.ErrInvalidParam
	}
	return nil
}

// CreateEvent adds an event to a wedding
func (s *WeddingService) CreateEvent(ctx context.Context, userId, weddingId string, req *EventRequest) (*entity.Event, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	eventId, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate event id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	e := &entity.Event{
		Id:         eventId,
		WeddingId:  weddingId,
		Name:       strings.TrimSpace(req.Name),
		EventDate:  req.EventDate,
		Venue:      req.Venue,
		GuestCount: req.GuestCount,
	}
	if err := s.weddingRepo.CreateEvent(ctx, e); err != nil {
		log.CtxError(ctx, "create event failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	return e, nil
}

// ListEvents lists a wedding's events
func (s *WeddingService) ListEvents(ctx context.Context, userId, weddingId string) ([]*entity.Event, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	es, err := s.weddingRepo.ListEvents(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "list events failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	return es, nil
}

// ownedEvent loads an event and checks the caller owns its wedding
func (s *WeddingService) ownedEvent(ctx context.Context, userId, eventId string) (*entity.Event, error) {
	e, err := s.weddingRepo.GetEvent(ctx, eventId)
	if err != nil {
		log.CtxError(ctx, "get event failed: event_id=%s, error=%v", eventId, err)
		return nil, errcode.ErrInternalServer
	}
	if e == nil {
		return nil, errcode.ErrEventNotFound
	}
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, e.WeddingId); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEvent replaces an event's editable fields
func (s *WeddingService) UpdateEvent(ctx context.Context, userId, eventId string, req *EventRequest) (*entity.Event, error) {
	e, err := s.ownedEvent(ctx, userId, eventId)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"event_date":  req.EventDate,
		"venue":       req.Venue,
		"guest_count": req.GuestCount,
	}
	if err := s.weddingRepo.UpdateEvent(ctx, eventId, updates); err != nil {
		log.CtxError(ctx, "update event failed: event_id=%s, error=%v", eventId, err)
		return nil, errcode.ErrInternalServer
	}

	e.Name = strings.TrimSpace(req.Name)
	e.EventDate = req.EventDate
	e.Venue = req.Venue
	e.GuestCount = req.GuestCount
	return e, nil
}

// DeleteEvent removes an event
func (s *WeddingService) DeleteEvent(ctx context.Context, userId, eventId string) error {
	if _, err := s.ownedEvent(ctx, userId, eventId); err != nil {
		return err
	}
	if err := s.weddingRepo.DeleteEvent(ctx, eventId); err != nil {
		log.CtxError(ctx, "delete event failed: event_id=%s, error=%v", eventId, err)
		return errcode.ErrInternalServer
	}
	return nil
}

// WebsiteRequest represents the website builder form
type WebsiteRequest struct {
	Slug      string `json:"slug"`
	Headline  string `json:"headline"`
	Story     string `json:"story"`
	Published bool   `json:"published"`
}

// SaveWebsite creates or replaces the wedding's public website
func (s *WeddingService) SaveWebsite(ctx context.Context, userId, weddingId string, req *WebsiteRequest) (*entity.WeddingWebsite, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !entity.ValidSlug(slug) {
		return nil, errcode.ErrSlugInvalid
	}

	taken, err := s.weddingRepo.GetWebsiteBySlug(ctx, slug)
	if err != nil {
		log.CtxError(ctx, "get website by slug failed: slug=%s, error=%v", slug, err)
		return nil, errcode.ErrInternalServer
	}
	if taken != nil && taken.WeddingId != weddingId {
		return nil, errcode.ErrSlugTaken
	}

	site := &entity.WeddingWebsite{
		WeddingId: weddingId,
		Slug:      slug,
		Headline:  req.Headline,
		Story:     req.Story,
		Published: req.Published,
	}
	if err := s.weddingRepo.UpsertWebsite(ctx, site); err != nil {
		log.CtxError(ctx, "save website failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "website saved: wedding_id=%s, slug=%s, published=%v", weddingId, slug, req.Published)
	return site, nil
}

// GetWebsite returns the wedding's website settings
func (s *WeddingService) GetWebsite(ctx context.Context, userId, weddingId string) (*entity.WeddingWebsite, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	site, err := s.weddingRepo.GetWebsite(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "get website failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	if site == nil {
		return nil, errcode.ErrWebsiteNotFound
	}
	return site, nil
}

// PublicSite renders a published website for anonymous visitors
func (s *WeddingService) PublicSite(ctx context.Context, slug string) (*entity.PublicSite, error) {
	site, err := s.weddingRepo.GetWebsiteBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		log.CtxError(ctx, "get website by slug failed: slug=%s, error=%v", slug, err)
		return nil, errcode.ErrInternalServer
	}
	if site == nil || !site.Published {
		return nil, errcode.ErrWebsiteNotFound
	}

	w, err := s.weddingRepo.GetById(ctx, site.WeddingId)
	if err != nil {
		log.CtxError(ctx, "get wedding failed: wedding_id=%s, error=%v", site.WeddingId, err)
		return nil, errcode.ErrInternalServer
	}
	if w == nil {
		return nil, errcode.ErrWebsiteNotFound
	}

	events, err := s.weddingRepo.ListEvents(ctx, w.Id)
	if err != nil {
		log.CtxError(ctx, "list events failed: wedding_id=%s, error=%v", w.Id, err)
		return nil, errcode.ErrInternalServer
	}

	return &entity.PublicSite{
		Slug:        site.Slug,
		Headline:    site.Headline,
		Story:       site.Story,
		PartnerOne:  w.PartnerOne,
		PartnerTwo:  w.PartnerTwo,
		WeddingDate: w.WeddingDate,
		City:        w.City,
		Events:      events,
	}, nil
}
