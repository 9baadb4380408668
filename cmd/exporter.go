package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bluecats/bluecats-loop-api-client/internal/client"
	"github.com/bluecats/bluecats-loop-api-client/pkg/models"
	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// Variables to hold flag values
var (
	expHost       string
	expEmail      string
	expPass       string
	expObjectType string
	expObjectID   string
	expPageLimit  int
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit   chan struct{}
	server *http.Server
	api    *client.LoopClient
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	// 1. Initial Login
	log.Println("Attempting initial login...")
	if err := p.api.Login(context.Background(), p.api.Config.Email, p.api.Config.Password); err != nil {
		log.Printf("Fatal: Initial login failed: %v", err)
		// Exit so the service manager attempts a restart.
		os.Exit(1)
	}
	log.Println("Initial login successful.")

	// 2. Setup Prometheus
	registry := prometheus.NewRegistry()
	collector := &LoopCollector{
		Client:     p.api,
		ObjectType: expObjectType,
		ObjectID:   expObjectID,
		PageLimit:  expPageLimit,
		started:    time.Now().UTC(),
		eventCount: make(map[string]float64),
	}
	registry.MustRegister(collector)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", expPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Printf("Loop Exporter listening on %s", addr)

	// Blocking call to listen
	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("HTTP Server error: %v", err)
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	log.Println("Stopping service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR LOGIC ---

// LoopCollector follows the event stream of one tracked object across
// scrapes, carrying the continuation cursor between Collect calls.
type LoopCollector struct {
	Client     *client.LoopClient
	ObjectType string
	ObjectID   string
	PageLimit  int

	mu         sync.Mutex
	started    time.Time
	lastKey    *models.PaginationKey
	eventCount map[string]float64
	lastEvent  time.Time
}

var (
	upDesc = prometheus.NewDesc(
		"loop_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"loop_scrape_duration_seconds", "Time taken to scrape the event stream.", nil, nil,
	)
	eventsTotalDesc = prometheus.NewDesc(
		"loop_events_total", "Events observed since exporter start, by type.", []string{"eventType"}, nil,
	)
	lastEventDesc = prometheus.NewDesc(
		"loop_last_event_timestamp_seconds", "Timestamp of the most recent event observed.", nil, nil,
	)
)

func (c *LoopCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- eventsTotalDesc
	ch <- lastEventDesc
}

func (c *LoopCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := time.Now()
	success := 1.0

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for {
		query := models.EventQuery{
			ObjectType: c.ObjectType,
			ObjectID:   c.ObjectID,
			Limit:      c.PageLimit,
		}
		if c.lastKey != nil {
			query.LastKeyID = c.lastKey.ID
			if ts, err := time.Parse(client.LoopTimeFormat, c.lastKey.Timestamp); err == nil {
				query.LastKeyTimestamp = ts
			}
		} else {
			// First scrape: only look at events since the exporter started.
			query.StartTime = c.started
			query.EndTime = time.Now().UTC()
		}

		page, err := c.fetchPageWithRetry(ctx, query)
		if err != nil {
			success = 0.0
			log.Printf("Error scraping events: %v", err)
			break
		}

		for _, e := range page.Events {
			c.eventCount[e.Type]++
			if ts, err := time.Parse(client.LoopTimeFormat, e.Timestamp); err == nil && ts.After(c.lastEvent) {
				c.lastEvent = ts
			}
		}

		if page.LastKey == nil {
			break
		}
		c.lastKey = page.LastKey
	}

	for evType, cnt := range c.eventCount {
		ch <- prometheus.MustNewConstMetric(eventsTotalDesc, prometheus.CounterValue, cnt, evType)
	}
	if !c.lastEvent.IsZero() {
		ch <- prometheus.MustNewConstMetric(lastEventDesc, prometheus.GaugeValue, float64(c.lastEvent.Unix()))
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// --- RETRY HELPERS ---

// fetchPageWithRetry re-logins once when the session token has expired.
func (c *LoopCollector) fetchPageWithRetry(ctx context.Context, query models.EventQuery) (*models.PaginatedEvents, error) {
	page, err := c.Client.GetPaginatedEvents(ctx, query)
	if err == nil {
		return page, nil
	}
	if isAuthError(err) {
		if e := c.Client.Login(ctx, c.Client.Config.Email, c.Client.Config.Password); e == nil {
			return c.Client.GetPaginatedEvents(ctx, query)
		}
	}
	return nil, err
}

func isAuthError(err error) bool {
	var remote *client.RemoteRequestError
	if !errors.As(err, &remote) {
		return false
	}
	return remote.Status == http.StatusUnauthorized || remote.Status == http.StatusForbidden
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that follows the event stream of a
tracked object and exposes it as Prometheus metrics.
Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Setup Client Config
		hostClean := strings.TrimRight(expHost, "/")
		cfg := client.ClientConfig{
			BaseURL:  hostClean,
			Email:    expEmail,
			Password: expPass,
		}

		// 2. Define Service Configuration
		svcConfig := &service.Config{
			Name:        "loop-exporter",
			DisplayName: "Loop Prometheus Exporter",
			Description: "Exposes BlueCats Loop event metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{
				"exporter",
				"--host", expHost,
				"--email", expEmail,
				"--password", expPass,
				"--object-type", expObjectType,
				"--object-id", expObjectID,
				"--port", expPort,
			},
		}

		prg := &program{
			api: client.New(cfg),
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// 3. Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if serviceAction == "install" {
				if expHost == "" || expEmail == "" || expPass == "" || expObjectType == "" || expObjectID == "" {
					log.Fatal("Error: You must provide --host, --email, --password, --object-type and --object-id to install the service.")
				}
			}

			err = service.Control(s, serviceAction)
			if err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// 4. Run the Service (Blocking)
		logger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			logger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expHost, "host", "", "API Base URL")
	exporterCmd.Flags().StringVar(&expEmail, "email", "", "Account email")
	exporterCmd.Flags().StringVar(&expPass, "password", "", "Account password")
	exporterCmd.Flags().StringVar(&expObjectType, "object-type", "", "Tracked object type to follow")
	exporterCmd.Flags().StringVar(&expObjectID, "object-id", "", "Tracked object identifier to follow")
	exporterCmd.Flags().IntVar(&expPageLimit, "page-limit", 100, "Page size for event reads")
	exporterCmd.Flags().StringVar(&expPort, "port", "9101", "Port to listen on")

	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
