package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bluecats/bluecats-loop-api-client/internal/client"
	"github.com/bluecats/bluecats-loop-api-client/pkg/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	eventObjectType string
	eventObjectID   string
	eventType       string
	eventSince      string
	eventFrom       string
	eventTo         string
	eventLimit      int
	followPages     bool

	postEdgeMAC string
	postFile    string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Read and submit tracked-object events",
	Long:  `Read the paginated event stream of a tracked object, or submit a batch of events recorded by an edge relay.`,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events for a tracked object",
	Run: func(cmd *cobra.Command, args []string) {
		api := clientFromConfig()

		query := models.EventQuery{
			ObjectType: eventObjectType,
			ObjectID:   eventObjectID,
			EventType:  eventType,
			Limit:      eventLimit,
		}

		// Time window: --since takes precedence, otherwise --from/--to as a pair.
		if eventSince != "" {
			duration, err := time.ParseDuration(eventSince)
			if err != nil {
				fmt.Printf("Error parsing duration: %v\n", err)
				os.Exit(1)
			}
			query.EndTime = time.Now().UTC()
			query.StartTime = query.EndTime.Add(-duration)
		} else if eventFrom != "" && eventTo != "" {
			from, err := parseTimestamp(eventFrom)
			if err != nil {
				fmt.Printf("Error parsing --from: %v\n", err)
				os.Exit(1)
			}
			to, err := parseTimestamp(eventTo)
			if err != nil {
				fmt.Printf("Error parsing --to: %v\n", err)
				os.Exit(1)
			}
			query.StartTime = from
			query.EndTime = to
		}

		var allEvents []models.Event
		for {
			page, err := api.GetPaginatedEvents(context.Background(), query)
			if err != nil {
				fmt.Printf("Error fetching events: %v\n", err)
				os.Exit(1)
			}
			allEvents = append(allEvents, page.Events...)

			if !followPages || page.LastKey == nil {
				break
			}

			// Resume the next page from the continuation cursor.
			query.LastKeyID = page.LastKey.ID
			ts, err := parseTimestamp(page.LastKey.Timestamp)
			if err != nil {
				fmt.Printf("Error parsing continuation cursor: %v\n", err)
				os.Exit(1)
			}
			query.LastKeyTimestamp = ts
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(allEvents); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if len(allEvents) == 0 {
			fmt.Println("No events found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tTYPE\tOBJECT\tEDGE")
		fmt.Fprintln(w, "---------\t----\t------\t----")

		for _, e := range allEvents {
			ts := e.Timestamp
			// Parse ISO8601 back to local time for display
			if t, err := parseTimestamp(e.Timestamp); err == nil {
				ts = t.Local().Format("2006-01-02 15:04:05")
			}

			edge := e.EdgeMAC
			if edge == "" {
				edge = "-"
			}

			fmt.Fprintf(w, "%s\t%s\t%s/%s\t%s\n", ts, e.Type, e.ObjectType, e.ObjectID, edge)
		}
		w.Flush()
	},
}

var eventsPostCmd = &cobra.Command{
	Use:   "post",
	Short: "Submit a batch of events for an edge relay",
	Long: `Reads a JSON array of event payloads from a file (or stdin with "-") and
submits them in order on behalf of the given edge relay.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := clientFromConfig()

		var raw []byte
		var err error
		if postFile == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(postFile)
		}
		if err != nil {
			fmt.Printf("Error reading payloads: %v\n", err)
			os.Exit(1)
		}

		var payloads []any
		if err := json.Unmarshal(raw, &payloads); err != nil {
			fmt.Printf("Error parsing payloads (expected a JSON array): %v\n", err)
			os.Exit(1)
		}

		infos := make([]models.EventInfo, len(payloads))
		for i, p := range payloads {
			infos[i] = models.EventInfo{Payload: p}
		}

		body, err := api.PostEvents(context.Background(), postEdgeMAC, infos)
		if err != nil {
			fmt.Printf("Error submitting events: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Submitted %d event(s) for %s.\n", len(infos), postEdgeMAC)
		if body != "" {
			fmt.Println(body)
		}
	},
}

// clientFromConfig builds a client from the saved session, or exits when no
// login has been performed yet.
func clientFromConfig() *client.LoopClient {
	baseURL := viper.GetString("base_url")
	token := viper.GetString("auth_token")

	if baseURL == "" || token == "" {
		fmt.Println("Error: Not logged in. Please run 'loop-cli login' first.")
		os.Exit(1)
	}

	api := client.New(client.ClientConfig{BaseURL: baseURL})
	api.SetToken(token)
	return api
}

// parseTimestamp accepts the Loop wire format and plain RFC 3339.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(client.LoopTimeFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsPostCmd)

	eventsListCmd.Flags().StringVar(&eventObjectType, "object-type", "", "Tracked object type (e.g. beacon, location)")
	eventsListCmd.Flags().StringVar(&eventObjectID, "object-id", "", "Tracked object identifier")
	eventsListCmd.Flags().StringVar(&eventType, "type", "", "Filter by event type")
	eventsListCmd.Flags().StringVar(&eventSince, "since", "", "Look back duration (e.g. 30m, 1h, 24h)")
	eventsListCmd.Flags().StringVar(&eventFrom, "from", "", "Range start (ISO 8601); only applied together with --to")
	eventsListCmd.Flags().StringVar(&eventTo, "to", "", "Range end (ISO 8601); only applied together with --from")
	eventsListCmd.Flags().IntVar(&eventLimit, "limit", 0, "Page size (server default when 0)")
	eventsListCmd.Flags().BoolVar(&followPages, "follow-pages", false, "Follow the continuation cursor until the stream is exhausted")
	_ = eventsListCmd.MarkFlagRequired("object-type")
	_ = eventsListCmd.MarkFlagRequired("object-id")

	eventsPostCmd.Flags().StringVar(&postEdgeMAC, "edge-mac", "", "MAC address of the reporting edge relay")
	eventsPostCmd.Flags().StringVar(&postFile, "file", "-", "JSON file with an array of event payloads ('-' for stdin)")
	_ = eventsPostCmd.MarkFlagRequired("edge-mac")
}
