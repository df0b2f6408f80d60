package sdk

import "context"

// Register registers a new couple or vendor account
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*UserInfo, error) {
	var result UserInfo
	if err := c.post(ctx, "/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates a user and returns a token
// The token is automatically stored in the client for subsequent requests
func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var result LoginResponse
	if err := c.post(ctx, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// Logout revokes the current token and clears it locally
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

// GetMe gets the current user's info
func (c *Client) GetMe(ctx context.Context) (*UserInfo, error) {
	var result UserInfo
	if err := c.get(ctx, "/users/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateMe updates the current user's profile
func (c *Client) UpdateMe(ctx context.Context, req *UpdateUserRequest) (*UserInfo, error) {
	var result UserInfo
	if err := c.put(ctx, "/users/me", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOnlineStatus reports whether userId holds a realtime connection
func (c *Client) GetOnlineStatus(ctx context.Context, userId string) (*OnlineStatus, error) {
	var result OnlineStatus
	if err := c.get(ctx, "/users/"+userId+"/online", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
