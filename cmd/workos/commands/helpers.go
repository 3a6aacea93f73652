package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/workos-client/internal/constants"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
	"github.com/fivetwenty-io/workos-client/pkg/workosclient"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"
	Masked       = "***"

	timeLayout = "2006-01-02 15:04:05"
)

// Common static errors used throughout the commands package.
var (
	ErrAPIKeyNotConfigured   = errors.New("API key not configured (run 'workos config login' or set WORKOS_API_KEY)")
	ErrClientIDNotConfigured = errors.New("client ID not configured (use --client-id or set WORKOS_CLIENT_ID)")
	ErrInvalidObjectRef      = errors.New("object must be written as type:id")
	ErrInvalidSubjectRef     = errors.New("subject must be written as type:id or type:id#relation")
	ErrInvalidKeyValue       = errors.New("expected key=value")
	ErrFileRequired          = errors.New("file is required (use --file)")
	ErrNothingToUpdate       = errors.New("nothing to update")
	ErrUnknownFactorType     = errors.New("factor type must be totp or sms")
	ErrUnknownPortalIntent   = errors.New("unknown portal intent")
	ErrMembershipFilter      = errors.New("exactly one of --org and --user is required")
)

// newClient builds an API client from the resolved flags, environment and config file.
func newClient(cmd *cobra.Command) (workos.Client, error) {
	apiKey := viper.GetString("api_key")
	if apiKey == "" {
		return nil, ErrAPIKeyNotConfigured
	}

	logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))

	interceptors := workos.NewInterceptorChain().
		AddRequestInterceptor(workos.LoggingInterceptor(logger)).
		AddResponseInterceptor(workos.LoggingResponseInterceptor(logger))

	headers, err := parseKeyValues(viper.GetStringSlice("headers"))
	if err != nil {
		return nil, fmt.Errorf("parsing --header: %w", err)
	}

	if len(headers) > 0 {
		interceptors.AddRequestInterceptor(workos.HeaderInterceptor(headers))
	}

	if rps := viper.GetFloat64("rate_limit"); rps > 0 {
		interceptors.AddRequestInterceptor(workos.NewRateLimitInterceptor(rps, 1))
	}

	if addr := viper.GetString("metrics_addr"); addr != "" {
		collector, _, err := serveMetrics(commandContext(cmd), addr, logger)
		if err != nil {
			return nil, err
		}

		interceptors.AddResponseInterceptor(collector.ResponseInterceptor())
	}

	client, err := workosclient.New(commandContext(cmd), &workos.Config{
		APIKey:       apiKey,
		BaseURL:      viper.GetString("base_url"),
		ClientID:     viper.GetString("client_id"),
		RetryMax:     viper.GetInt("retries"),
		Debug:        viper.GetBool("verbose"),
		Logger:       logger,
		Interceptors: interceptors,
	})
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// commandContext returns the context the command was executed with.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString("output"))

	switch format {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidOutputValue, format)
	}
}

// render writes data as JSON or YAML, or calls table for the table format.
func render[T any](cmd *cobra.Command, data T, table func(io.Writer) error) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch format {
	case constants.FormatJSON:
		return StandardJSONRenderer(out, data)
	case constants.FormatYAML:
		return StandardYAMLRenderer(out, data)
	default:
		return table(out)
	}
}

// StandardJSONRenderer writes data as indented JSON.
func StandardJSONRenderer[T any](out io.Writer, data T) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML.
func StandardYAMLRenderer[T any](out io.Writer, data T) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// newTable returns a table writing to out with the given header.
func newTable(out io.Writer, header ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.Header(header...)

	return table
}

// renderProperties writes name/value pairs as a two column table.
func renderProperties(out io.Writer, pairs [][2]string) error {
	table := newTable(out, "Property", "Value")

	for _, pair := range pairs {
		_ = table.Append(pair[0], pair[1])
	}

	return table.Render()
}

// paginationFlags are the cursor flags shared by every list command.
type paginationFlags struct {
	limit  int
	before string
	after  string
	order  string
	all    bool
}

func addPaginationFlags(cmd *cobra.Command) *paginationFlags {
	flags := &paginationFlags{}

	cmd.Flags().IntVar(&flags.limit, "limit", 0, fmt.Sprintf("page size (server default %d, max %d)",
		constants.StandardPageSize, constants.MaxPageSize))
	cmd.Flags().StringVar(&flags.before, "before", "", "cursor of the page to list backwards from")
	cmd.Flags().StringVar(&flags.after, "after", "", "cursor of the page to list forwards from")
	cmd.Flags().StringVar(&flags.order, "order", "", "sort order (asc, desc)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "fetch every page")

	return flags
}

func (f *paginationFlags) params() workos.PaginationParams {
	return workos.PaginationParams{
		Limit:  f.limit,
		Before: f.before,
		After:  f.after,
		Order:  workos.Order(f.order),
	}
}

// direction follows the before cursor when --before was given.
func (f *paginationFlags) direction() workos.Direction {
	if f.before != "" {
		return workos.Backward
	}

	return workos.Forward
}

// listPages fetches one page, or every page when --all is set.
func listPages[T any](ctx context.Context, flags *paginationFlags, fetch workos.PageFunc[T]) (*workos.List[T], error) {
	if !flags.all {
		return fetch(ctx, flags.params())
	}

	items, err := workos.CollectAll(ctx, fetch, flags.params(), flags.direction())
	if err != nil {
		return nil, err
	}

	return &workos.List[T]{Data: items}, nil
}

// printCursors reports the cursors of a single page below a table.
func printCursors(out io.Writer, metadata workos.ListMetadata) {
	if before := metadata.Cursor(workos.Backward); before != "" {
		_, _ = fmt.Fprintf(out, "Previous page: --before %s\n", before)
	}

	if after := metadata.Cursor(workos.Forward); after != "" {
		_, _ = fmt.Fprintf(out, "Next page: --after %s\n", after)
	}
}

// parseKeyValues turns key=value pairs into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil //nolint:nilnil // absent flags leave the field unset
	}

	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKeyValue, pair)
		}

		result[key] = value
	}

	return result, nil
}

// toAnyMap widens string metadata to the FGA metadata shape.
func toAnyMap(values map[string]string) map[string]any {
	if values == nil {
		return nil
	}

	result := make(map[string]any, len(values))
	for key, value := range values {
		result[key] = value
	}

	return result
}

// parseObjectRef splits "type:id".
func parseObjectRef(ref string) (string, string, error) {
	objectType, objectID, found := strings.Cut(ref, ":")
	if !found || objectType == "" || objectID == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidObjectRef, ref)
	}

	return objectType, objectID, nil
}

// parseSubjectRef splits "type:id" or "type:id#relation".
func parseSubjectRef(ref string) (workos.Subject, error) {
	object, relation, _ := strings.Cut(ref, "#")

	subjectType, subjectID, err := parseObjectRef(object)
	if err != nil {
		return workos.Subject{}, fmt.Errorf("%w: %q", ErrInvalidSubjectRef, ref)
	}

	return workos.Subject{ResourceType: subjectType, ResourceID: subjectID, Relation: relation}, nil
}

// formatSubject is the inverse of parseSubjectRef.
func formatSubject(subject workos.Subject) string {
	ref := subject.ResourceType + ":" + subject.ResourceID
	if subject.Relation != "" {
		ref += "#" + subject.Relation
	}

	return ref
}

func valueOrNA(value *string) string {
	if value == nil || *value == "" {
		return NotAvailable
	}

	return *value
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}

	return t.Format(timeLayout)
}

func formatMap[V any](values map[string]V) string {
	if len(values) == 0 {
		return NotAvailable
	}

	parts := make([]string, 0, len(values))
	for key, value := range values {
		parts = append(parts, fmt.Sprintf("%s=%v", key, value))
	}

	slices.Sort(parts)

	return strings.Join(parts, ", ")
}
