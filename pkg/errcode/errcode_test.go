package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesByCode(t *testing.T) {
	wrapped := ErrConversationClosed.Wrap(errors.New("row locked"))
	assert.True(t, errors.Is(wrapped, ErrConversationClosed))
	assert.False(t, errors.Is(wrapped, ErrEmptyMessage))

	outer := fmt.Errorf("send: %w", wrapped)
	assert.ErrorIs(t, outer, ErrConversationClosed)
}

func TestAs(t *testing.T) {
	e, ok := As(fmt.Errorf("create vendor: %w", ErrVendorDuplicate))
	require.True(t, ok)
	assert.Equal(t, 6002, e.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestWrapNil(t *testing.T) {
	assert.Same(t, ErrNotFound, ErrNotFound.Wrap(nil))
	assert.Equal(t, "conversation closed: x", ErrConversationClosed.Wrap(errors.New("x")).Msg)
}
