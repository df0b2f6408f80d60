package s3

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", false, "k", "s", "bucket", "")
	assert.Error(t, err)

	_, err = NewClient("localhost:9000", false, "k", "s", " ", "")
	assert.Error(t, err)
}

func TestNewClientPublicBase(t *testing.T) {
	c, err := NewClient("http://localhost:9000", false, "k", "s", "vendor-portfolio", "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", c.publicBaseURL)

	c, err = NewClient("minio:9000", true, "k", "s", "vendor-portfolio", "https://cdn.viah.me/")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.viah.me", c.publicBaseURL)
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://cdn.viah.me/b/v1/p.jpg", ObjectURL("https://cdn.viah.me/", "b", "/v1/p.jpg"))
	assert.Equal(t, "v1/p.jpg", CleanKey(" /v1/p.jpg/ "))
}

func TestNoopUploader(t *testing.T) {
	var u Uploader = NoopUploader{}
	_, err := u.Upload(context.Background(), "k", strings.NewReader("x"), 1, "image/jpeg")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoError(t, u.Remove(context.Background(), "k"))
}
