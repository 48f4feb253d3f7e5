package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/sirupsen/logrus"

	"yt-insights/domain/model"
)

// EventImportCompleted is the eventType attribute of import messages.
const EventImportCompleted = "ImportCompleted"

// NewPubSub creates a Pub/Sub client for the project using default credentials.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project id is empty")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return client, nil
}

// ImportEventPublisher publishes ImportCompleted events to one topic.
type ImportEventPublisher struct {
	client    *pubsub.Client
	topicName string
	log       *logrus.Logger

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewImportEventPublisher(client *pubsub.Client, topicName string, log *logrus.Logger) *ImportEventPublisher {
	return &ImportEventPublisher{client: client, topicName: topicName, log: log}
}

func (p *ImportEventPublisher) PublishImportCompleted(ctx context.Context, event model.ImportCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal import event: %w", err)
	}
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"eventType":        EventImportCompleted,
			"youtubeChannelId": event.YouTubeChannelID,
		},
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.topicName, err)
	}

	p.log.WithFields(logrus.Fields{"serverId": serverID, "topic": p.topicName}).Info("Message published")
	return nil
}

// ensureTopic creates the topic on first use if it doesn't exist.
func (p *ImportEventPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}
	if p.client == nil {
		return nil, fmt.Errorf("pubsub client is not configured")
	}

	topic := p.client.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", p.topicName, err)
	}
	if !exists {
		p.log.WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		topic, err = p.client.CreateTopic(ctx, p.topicName)
		if err != nil {
			return nil, fmt.Errorf("create topic %s: %w", p.topicName, err)
		}
	}
	p.topic = topic
	return topic, nil
}

// Close flushes pending messages.
func (p *ImportEventPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		p.topic.Stop()
		p.topic = nil
	}
}
