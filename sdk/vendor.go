package sdk

import (
	"context"
	"net/url"
	"strconv"
)

// CreateVendor creates a vendor profile. When a vendor with the same
// normalized name and city exists, the existing vendor is returned together
// with ErrVendorDuplicate.
func (c *Client) CreateVendor(ctx context.Context, req *CreateVendorRequest) (*Vendor, error) {
	var result Vendor
	err := c.post(ctx, "/vendors", req, &result)
	if err != nil {
		if IsVendorDuplicate(err) && result.Id != "" {
			return &result, err
		}
		return nil, err
	}
	return &result, nil
}

// GetVendor gets a vendor profile
func (c *Client) GetVendor(ctx context.Context, vendorId string) (*Vendor, error) {
	var result Vendor
	if err := c.get(ctx, "/vendors/"+vendorId, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListVendors browses the public vendor directory
func (c *Client) ListVendors(ctx context.Context, req *ListVendorsRequest) ([]*Vendor, error) {
	query := url.Values{}
	if req != nil {
		if req.Category != "" {
			query.Set("category", req.Category)
		}
		if req.City != "" {
			query.Set("city", req.City)
		}
		if req.Limit > 0 {
			query.Set("limit", strconv.Itoa(req.Limit))
		}
		if req.Offset > 0 {
			query.Set("offset", strconv.Itoa(req.Offset))
		}
	}
	var result []*Vendor
	if err := c.get(ctx, "/vendors", query, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListMyVendors lists the vendor profiles owned by the current user
func (c *Client) ListMyVendors(ctx context.Context) ([]*Vendor, error) {
	var result []*Vendor
	if err := c.get(ctx, "/vendors/mine", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListPhotos lists a vendor's portfolio photos
func (c *Client) ListPhotos(ctx context.Context, vendorId string) ([]*PortfolioPhoto, error) {
	var result []*PortfolioPhoto
	if err := c.get(ctx, "/vendors/"+vendorId+"/photos", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeletePhoto removes a portfolio photo
func (c *Client) DeletePhoto(ctx context.Context, photoId string) error {
	return c.delete(ctx, "/vendors/photos/"+photoId)
}

// CreateBooking sends a booking inquiry to a vendor
func (c *Client) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	var result Booking
	if err := c.post(ctx, "/bookings", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListVendorBookings lists bookings received by a vendor
func (c *Client) ListVendorBookings(ctx context.Context, vendorId string) ([]*Booking, error) {
	var result []*Booking
	if err := c.get(ctx, "/bookings/vendor/"+vendorId, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListWeddingBookings lists a wedding's bookings
func (c *Client) ListWeddingBookings(ctx context.Context, weddingId string) ([]*Booking, error) {
	var result []*Booking
	if err := c.get(ctx, "/bookings/wedding/"+weddingId, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateBookingStatus moves a booking through its lifecycle
func (c *Client) UpdateBookingStatus(ctx context.Context, bookingId, status string) (*Booking, error) {
	var result Booking
	body := map[string]string{"status": status}
	if err := c.patch(ctx, "/bookings/"+bookingId+"/status", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateContract attaches a contract and payment schedule to a booking
func (c *Client) CreateContract(ctx context.Context, req *CreateContractRequest) (*Contract, error) {
	var result Contract
	if err := c.post(ctx, "/contracts", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListContracts lists a wedding's contracts
func (c *Client) ListContracts(ctx context.Context, weddingId string) ([]*Contract, error) {
	var result []*Contract
	if err := c.get(ctx, "/contracts/wedding/"+weddingId, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateLead submits the public inquiry form. No token is required.
func (c *Client) CreateLead(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	var result Lead
	if err := c.post(ctx, "/vendor-leads", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListLeads lists a vendor's leads, optionally filtered by status
func (c *Client) ListLeads(ctx context.Context, vendorId, status string) ([]*VendorLead, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": []string{status}}
	}
	var result []*VendorLead
	if err := c.get(ctx, "/vendor-leads/"+vendorId, query, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateLeadStatus moves a lead through the sales pipeline
func (c *Client) UpdateLeadStatus(ctx context.Context, leadId, status string) (*VendorLead, error) {
	var result VendorLead
	body := map[string]string{"status": status}
	if err := c.patch(ctx, "/vendor-leads/item/"+leadId, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLeadAnalytics returns a vendor's lead funnel statistics
func (c *Client) GetLeadAnalytics(ctx context.Context, vendorId string) (*LeadAnalytics, error) {
	var result LeadAnalytics
	if err := c.get(ctx, "/vendor-leads/"+vendorId+"/analytics", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCalendarAuthURL returns the consent URL for a calendar provider
func (c *Client) GetCalendarAuthURL(ctx context.Context, provider string) (*CalendarAuthURL, error) {
	var result CalendarAuthURL
	if err := c.get(ctx, "/calendar/"+provider+"/auth-url", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
