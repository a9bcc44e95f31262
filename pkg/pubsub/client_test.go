package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carshop-ar/carshop-backend/pkg/config"
)

func TestResourceName(t *testing.T) {
	assert.Equal(t, "projects/p1/topics/domain", resourceName("p1", "topics", " domain "))
	assert.Equal(t, "projects/x/topics/t", resourceName("p1", "topics", "projects/x/topics/t"))
	assert.Equal(t, "projects/p1/subscriptions/s", resourceName("p1", "subscriptions", "s"))
	assert.Empty(t, resourceName("", "topics", "domain"))
	assert.Empty(t, resourceName("p1", "topics", ""))
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{DomainTopic: "t"}, nil)
	assert.ErrorIs(t, err, errProjectIDRequired)

	_, err = NewClient(context.Background(), config.GCPConfig{ProjectID: "p"}, config.PubSubConfig{}, nil)
	assert.ErrorIs(t, err, errTopicRequired)
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	assert.Nil(t, c.Publisher("t"))
	assert.Empty(t, c.DomainTopic())
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
