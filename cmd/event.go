package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/facility-management/internal/core/events"
	"github.com/frahmantamala/facility-management/internal/notification"
	"github.com/frahmantamala/facility-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish test events through the event bus and the configured webhook notifier`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus; when notifications are enabled it is also delivered to the webhook`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := publishTestEvent(args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

var eventData string

func publishTestEvent(eventType string) error {
	lg := logger.LoggerWrapper()

	data := map[string]interface{}{}
	if err := json.Unmarshal([]byte(eventData), &data); err != nil {
		data = map[string]interface{}{"message": eventData}
	}
	data["source"] = "cli-command"

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		lg.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	var notifier *notification.WebhookNotifier
	if cfg, err := loadConfig(configPath); err == nil && cfg.Notification.Enabled {
		notifier = notification.NewWebhookNotifier(notification.Config{
			WebhookURL:    cfg.Notification.WebhookURL,
			SigningSecret: cfg.Notification.SigningSecret,
			Timeout:       cfg.Notification.Timeout,
			RetryCount:    cfg.Notification.RetryCount,
		}, lg)
		eventBus.Subscribe(events.AllEvents, notifier.Handle)
	}

	testEvent := events.NewGenericEvent(eventType, data)
	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.EventID())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := eventBus.Publish(ctx, testEvent); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	if err := eventBus.Wait(ctx); err != nil {
		return fmt.Errorf("wait for handlers: %w", err)
	}
	if notifier != nil {
		if err := notifier.Shutdown(ctx); err != nil {
			return fmt.Errorf("drain notifier: %w", err)
		}
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event payload: a JSON object or a plain message")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
