package servicebus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/sirupsen/logrus"

	"yt-insights/domain/model"
)

const subjectImportCompleted = "ImportCompleted"

// NewServiceBus connects to <namespace>.servicebus.windows.net with DefaultAzureCredential.
func NewServiceBus(namespace string) (*azservicebus.Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("service bus namespace is empty")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	client, err := azservicebus.NewClient(fmt.Sprintf("%s.servicebus.windows.net", namespace), cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create service bus client: %w", err)
	}
	return client, nil
}

type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// ImportEventPublisher sends ImportCompleted events to a queue or topic.
type ImportEventPublisher struct {
	entity    string
	newSender func(entity string) (messageSender, error)
	log       *logrus.Logger
}

func NewImportEventPublisher(client *azservicebus.Client, entity string, log *logrus.Logger) *ImportEventPublisher {
	return &ImportEventPublisher{
		entity: entity,
		log:    log,
		newSender: func(entity string) (messageSender, error) {
			if client == nil {
				return nil, fmt.Errorf("service bus client is not configured")
			}
			return client.NewSender(entity, nil)
		},
	}
}

func (p *ImportEventPublisher) PublishImportCompleted(ctx context.Context, event model.ImportCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal import event: %w", err)
	}

	sender, err := p.newSender(p.entity)
	if err != nil {
		p.log.WithField("error", err).Error("Error while making new sender service bus.")
		return err
	}
	defer func() {
		if err := sender.Close(context.WithoutCancel(ctx)); err != nil {
			p.log.WithField("error", err).Error("Error while closing sender.")
		}
	}()

	contentType := "application/json"
	subject := subjectImportCompleted
	message := &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		ApplicationProperties: map[string]any{
			"youtubeChannelId": event.YouTubeChannelID,
		},
	}
	if err := sender.SendMessage(ctx, message, nil); err != nil {
		p.log.WithField("error", err).Error("Error while sending message.")
		return fmt.Errorf("send to %s: %w", p.entity, err)
	}
	return nil
}
