package sdk

import "context"

// CreateWedding creates a wedding owned by the current couple
func (c *Client) CreateWedding(ctx context.Context, req *CreateWeddingRequest) (*Wedding, error) {
	var result Wedding
	if err := c.post(ctx, "/weddings", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListWeddings lists the current user's weddings
func (c *Client) ListWeddings(ctx context.Context) ([]*Wedding, error) {
	var result []*Wedding
	if err := c.get(ctx, "/weddings", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetWedding gets one wedding
func (c *Client) GetWedding(ctx context.Context, weddingId string) (*Wedding, error) {
	var result Wedding
	if err := c.get(ctx, "/weddings/"+weddingId, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateWedding applies a partial update
func (c *Client) UpdateWedding(ctx context.Context, weddingId string, req *UpdateWeddingRequest) (*Wedding, error) {
	var result Wedding
	if err := c.patch(ctx, "/weddings/"+weddingId, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteWedding deletes a wedding
func (c *Client) DeleteWedding(ctx context.Context, weddingId string) error {
	return c.delete(ctx, "/weddings/"+weddingId)
}

// CreateEvent adds an event (mehndi, sangeet, ...) to a wedding
func (c *Client) CreateEvent(ctx context.Context, weddingId string, req *EventRequest) (*Event, error) {
	var result Event
	if err := c.post(ctx, "/weddings/"+weddingId+"/events", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListEvents lists a wedding's events in date order
func (c *Client) ListEvents(ctx context.Context, weddingId string) ([]*Event, error) {
	var result []*Event
	if err := c.get(ctx, "/weddings/"+weddingId+"/events", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateEvent replaces an event's details
func (c *Client) UpdateEvent(ctx context.Context, eventId string, req *EventRequest) (*Event, error) {
	var result Event
	if err := c.put(ctx, "/events/"+eventId, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteEvent deletes an event
func (c *Client) DeleteEvent(ctx context.Context, eventId string) error {
	return c.delete(ctx, "/events/"+eventId)
}

// SaveWebsite creates or replaces the wedding website
func (c *Client) SaveWebsite(ctx context.Context, weddingId string, req *WebsiteRequest) (*WeddingWebsite, error) {
	var result WeddingWebsite
	if err := c.put(ctx, "/weddings/"+weddingId+"/website", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetWebsite gets the wedding website settings
func (c *Client) GetWebsite(ctx context.Context, weddingId string) (*WeddingWebsite, error) {
	var result WeddingWebsite
	if err := c.get(ctx, "/weddings/"+weddingId+"/website", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPublicSite gets a published website by slug without authentication
func (c *Client) GetPublicSite(ctx context.Context, slug string) (*PublicSite, error) {
	var result PublicSite
	if err := c.get(ctx, "/sites/"+slug, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
