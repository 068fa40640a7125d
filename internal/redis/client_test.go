package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient("", nil)
	assert.Error(t, err)
}

func TestNewClientTalksToServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(mr.Addr(), nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewClientFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClientFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())

	_, err = NewClientFromURL("http://nope")
	assert.Error(t, err)
}
