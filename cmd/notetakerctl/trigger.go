package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/meeting-notetaker/internal/usecase/webhook"
)

const defaultEndpoint = "http://localhost:8080/v1/webhooks/meeting-bot"

type triggerOutcome struct {
	EventID string                    `json:"event_id"`
	Skipped string                    `json:"skipped,omitempty"`
	Error   string                    `json:"error,omitempty"`
	Result  *webhook.MeetingBotResult `json:"result,omitempty"`
}

func newTriggerCmd() *cobra.Command {
	var (
		endpoint string
		secret   string
		userID   string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "trigger <events-file>",
		Short: "Fire the meeting-bot webhook for calendar events",
		Long: `trigger reads one calendar event or a list of events from a YAML or JSON
file and posts the meeting-bot webhook for each. Events without a resolvable
meeting link are skipped. Each event id is fired at most once per run.`,
		Example: `  notetakerctl trigger events.yaml --secret "$MEETING_WEBHOOK_SECRET"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadEvents(args[0])
			if err != nil {
				return err
			}

			trigger := webhook.NewTrigger(endpoint, secret, userID, nil)
			outcomes := make([]triggerOutcome, 0, len(events))
			failed := 0
			for _, e := range events {
				out := triggerOutcome{EventID: e.ID}
				if webhook.ResolveMeetingURL(e) == "" {
					out.Skipped = "no meeting link"
					outcomes = append(outcomes, out)
					continue
				}

				ctx, cancel := contextWithTimeout(cmd, timeout)
				res, err := trigger.Fire(ctx, e)
				cancel()
				switch {
				case errors.Is(err, webhook.ErrAlreadyTriggered):
					out.Skipped = "duplicate event id"
				case err != nil:
					out.Error = err.Error()
					failed++
				default:
					out.Result = res
				}
				outcomes = append(outcomes, out)
			}

			if done, err := render(cmd.OutOrStdout(), outcomes); done {
				if err != nil {
					return err
				}
			} else {
				printOutcomes(cmd, outcomes)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d webhook(s) failed", failed, len(events))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", defaultEndpoint, "Meeting-bot webhook URL")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("MEETING_WEBHOOK_SECRET"), "Signing secret (defaults to $MEETING_WEBHOOK_SECRET)")
	cmd.Flags().StringVar(&userID, "user-id", "", "Owner user id attached to every payload")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout per webhook call")
	return cmd
}

// loadEvents accepts a single event or a list. JSON input parses as YAML.
func loadEvents(path string) ([]webhook.CalendarEvent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var list []webhook.CalendarEvent
	if err := yaml.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single webhook.CalendarEvent
	if err := yaml.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if single.ID == "" {
		return nil, fmt.Errorf("parse %s: event has no id", path)
	}
	return []webhook.CalendarEvent{single}, nil
}

func printOutcomes(cmd *cobra.Command, outcomes []triggerOutcome) {
	w := cmd.OutOrStdout()
	for _, o := range outcomes {
		switch {
		case o.Skipped != "":
			fmt.Fprintf(w, "⏭️  %s skipped: %s\n", o.EventID, o.Skipped)
		case o.Error != "":
			fmt.Fprintf(w, "❌ %s failed: %s\n", o.EventID, o.Error)
		case o.Result != nil && o.Result.Duplicate:
			fmt.Fprintf(w, "🔁 %s already processed by the server\n", o.EventID)
		case o.Result != nil:
			fmt.Fprintf(w, "✅ %s bot %s\n", o.EventID, o.Result.BotID)
		}
	}
}

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, d)
}
