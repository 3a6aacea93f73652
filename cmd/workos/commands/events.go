package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// NewEventsCommand creates the events command group.
func NewEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Read the event stream",
	}

	cmd.AddCommand(newEventsListCommand(sleepContext))
	cmd.AddCommand(newEventsParseCommand())

	return cmd
}

type eventsFlags struct {
	params       workos.ListEventsParams
	since        time.Duration
	all          bool
	follow       bool
	pollInterval time.Duration
}

// eventsPageFunc adapts the forward-only events endpoint to a PageFunc.
func eventsPageFunc(events workos.EventsClient, filter workos.ListEventsParams) workos.PageFunc[workos.Event] {
	return func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.Event], error) {
		params := filter
		params.Limit = page.Limit
		params.After = page.After

		return events.List(ctx, &params)
	}
}

func renderEvents(out io.Writer, events []workos.Event) error {
	table := newTable(out, "ID", "Event", "Created")

	for _, event := range events {
		_ = table.Append(event.ID, event.Event.String(), formatTime(event.CreatedAt))
	}

	return table.Render()
}

// followEvents prints each page as it arrives and, once caught up, polls from the
// last cursor until ctx is done.
func followEvents(
	ctx context.Context,
	cmd *cobra.Command,
	fetch workos.PageFunc[workos.Event],
	start workos.PaginationParams,
	interval time.Duration,
	sleep sleepFunc,
) error {
	cursor := start

	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}

		if len(page.Data) > 0 {
			err = render(cmd, page.Data, func(out io.Writer) error { return renderEvents(out, page.Data) })
			if err != nil {
				return err
			}
		}

		if next := page.ListMetadata.Cursor(workos.Forward); next != "" {
			cursor.After = next
		} else if len(page.Data) > 0 {
			cursor.After = page.Data[len(page.Data)-1].ID
		}

		if len(page.Data) == 0 || page.ListMetadata.Cursor(workos.Forward) == "" {
			err = sleep(ctx, interval)
			if err != nil {
				return nil //nolint:nilerr // interrupted follow is a clean exit
			}
		}
	}
}

func newEventsListCommand(sleep sleepFunc) *cobra.Command {
	flags := &eventsFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List events",
		Example: "  workos events list --event organization_domain.verified --since 24h\n  workos events list --follow",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.since > 0 {
				flags.params.RangeStart = time.Now().Add(-flags.since).UTC()
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			fetch := eventsPageFunc(client.Events(), flags.params)
			start := workos.PaginationParams{Limit: flags.params.Limit, After: flags.params.After}

			if flags.follow {
				return followEvents(ctx, cmd, fetch, start, flags.pollInterval, sleep)
			}

			list, err := listPages(ctx, &paginationFlags{limit: start.Limit, after: start.After, all: flags.all}, fetch)
			if err != nil {
				return err
			}

			return render(cmd, list, func(out io.Writer) error {
				err := renderEvents(out, list.Data)
				if err != nil {
					return err
				}

				printCursors(out, list.ListMetadata)

				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&flags.params.Events, "event", nil, "event names to include")
	cmd.Flags().StringVar(&flags.params.OrganizationID, "org", "", "only events of this organization")
	cmd.Flags().DurationVar(&flags.since, "since", 0, "only events newer than this duration")
	cmd.Flags().IntVar(&flags.params.Limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&flags.params.After, "after", "", "cursor to continue from")
	cmd.Flags().BoolVar(&flags.all, "all", false, "fetch every page")
	cmd.Flags().BoolVar(&flags.follow, "follow", false, "keep polling for new events")
	cmd.Flags().DurationVar(&flags.pollInterval, "poll-interval", 5*time.Second, "delay between polls with --follow") //nolint:mnd // default poll delay

	return cmd
}

func newEventsParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Decode a webhook body saved to a file",
		Long:  "Decode a webhook delivery and print its typed payload. Use - to read standard input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				body []byte
				err  error
			)

			if args[0] == "-" {
				body, err = io.ReadAll(cmd.InOrStdin())
			} else {
				body, err = os.ReadFile(args[0]) //nolint:gosec // path is chosen by the user
			}

			if err != nil {
				return fmt.Errorf("reading webhook body: %w", err)
			}

			event, err := workos.ParseWebhook(body)
			if err != nil {
				return err
			}

			payload, err := event.Payload()
			if err != nil {
				return err
			}

			if raw, ok := payload.(json.RawMessage); ok {
				var decoded any

				err = json.Unmarshal(raw, &decoded)
				if err != nil {
					return fmt.Errorf("decoding webhook data: %w", err)
				}

				payload = decoded
			}

			result := map[string]any{
				"id":         event.ID,
				"event":      event.Event.String(),
				"created_at": event.CreatedAt,
				"data":       payload,
			}

			return render(cmd, result, func(out io.Writer) error {
				pairs := [][2]string{
					{"ID", event.ID},
					{"Event", event.Event.String()},
					{"Known", fmt.Sprintf("%t", event.Event.IsKnown())},
					{"Created", formatTime(event.CreatedAt)},
				}

				if domain := domainFromPayload(payload); domain != nil {
					pairs = append(pairs,
						[2]string{"Domain", domain.Domain},
						[2]string{"Domain State", domain.State.String()},
						[2]string{"Organization", domain.OrganizationID},
					)
				}

				return renderProperties(out, pairs)
			})
		},
	}
}

func domainFromPayload(payload any) *workos.OrganizationDomain {
	switch typed := payload.(type) {
	case *workos.OrganizationDomainCreatedEvent:
		return &typed.OrganizationDomain
	case *workos.OrganizationDomainUpdatedEvent:
		return &typed.OrganizationDomain
	case *workos.OrganizationDomainDeletedEvent:
		return &typed.OrganizationDomain
	case *workos.OrganizationDomainVerificationFailedEvent:
		return &typed.OrganizationDomain
	default:
		return nil
	}
}
