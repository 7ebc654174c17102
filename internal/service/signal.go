package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/totegamma/discography"
	"github.com/totegamma/discography/internal/domain"
)

const channelPrefix = "discography:"

// SignalService fans catalog change events out over redis pub/sub, one
// channel per resource type.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

// Channel is the redis channel carrying events of resource.
func Channel(resource string) string {
	return channelPrefix + resource
}

func (s *SignalService) Publish(ctx context.Context, event discography.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "SignalService.Publish: marshal failed")
	}

	err = s.rdb.Publish(ctx, Channel(event.Resource), jsonstr).Err()
	if err != nil {
		return errors.Wrap(err, "SignalService.Publish: publish failed")
	}

	return nil
}

// Channels maps resource names to channels, dropping unknown names.
func Channels(resources []string) []string {
	known := map[string]bool{
		domain.ResourceBand:     true,
		domain.ResourceAlbum:    true,
		domain.ResourceMusician: true,
		domain.ResourceSong:     true,
	}
	seen := map[string]bool{}
	channels := []string{}
	for _, r := range resources {
		if !known[r] || seen[r] {
			continue
		}
		seen[r] = true
		channels = append(channels, Channel(r))
	}
	return channels
}

type subscriber interface {
	Subscribe(ctx context.Context, channels ...string) error
	Unsubscribe(ctx context.Context, channels ...string) error
}

// Realtime forwards events of the resources last sent on input to output.
// It returns when ctx is done or input is closed, and never closes output.
func (s *SignalService) Realtime(ctx context.Context, input <-chan []string, output chan<- discography.Event) {
	pubsub := s.rdb.Subscribe(ctx)
	defer pubsub.Close()

	forward(ctx, pubsub, pubsub.Channel(), input, output)
}

func forward(ctx context.Context, sub subscriber, messages <-chan *redis.Message, input <-chan []string, output chan<- discography.Event) {
	current := []string{}

	for {
		select {
		case <-ctx.Done():
			return
		case resources, ok := <-input:
			if !ok {
				return
			}
			channels := Channels(resources)
			if len(current) > 0 {
				if err := sub.Unsubscribe(ctx, current...); err != nil {
					slog.ErrorContext(
						ctx, "failed to unsubscribe",
						slog.String("error", err.Error()),
						slog.String("module", "signal"),
					)
				}
				current = []string{}
			}
			if len(channels) > 0 {
				if err := sub.Subscribe(ctx, channels...); err != nil {
					slog.ErrorContext(
						ctx, "failed to subscribe",
						slog.String("error", err.Error()),
						slog.String("module", "signal"),
					)
					continue
				}
			}
			current = channels
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event discography.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.WarnContext(
					ctx, "dropping malformed event",
					slog.String("channel", msg.Channel),
					slog.String("module", "signal"),
				)
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
