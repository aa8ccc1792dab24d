package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfcmatch/backend/internal/utils/pagination"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	in := pagination.Cursor{MessageID: "msg-1", CreatedUnix: 1700000000123}

	token, err := pagination.Encode(in)
	require.NoError(t, err)

	out, err := pagination.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeEmptyToken(t *testing.T) {
	c, err := pagination.Decode("")
	require.NoError(t, err)
	assert.Equal(t, pagination.Cursor{}, c)
}

func TestDecodeInvalidToken(t *testing.T) {
	_, err := pagination.Decode("%%%not-base64%%%")
	assert.Error(t, err)

	// valid base64, invalid JSON
	_, err = pagination.Decode("bm90LWpzb24=")
	assert.Error(t, err)
}
