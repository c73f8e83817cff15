package web

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	emailAdapter "holidayreminder/internal/adapters/email"
	"holidayreminder/internal/adapters/http/middleware"
	"holidayreminder/internal/adapters/http/perf"
	sendlogStore "holidayreminder/internal/adapters/storage/sendlog"
	"holidayreminder/internal/adapters/storage/statestore"
	"holidayreminder/internal/application/orchestrators"
)

// Deps holds everything the HTTP layer needs. No package-level state: two
// servers with different deps can coexist in one process (tests rely on
// this).
type Deps struct {
	Store   statestore.Store
	SendLog sendlogStore.Store
	Fetcher orchestrators.Fetcher
	Sender  emailAdapter.Sender

	FromAddress   string
	ReplyTo       string
	TransportInfo string
	HolidayAPIURL string

	// Clock returns the current local time in the service timezone.
	Clock func() time.Time
	// GenerateID mints send-log entry IDs.
	GenerateID func() string
	// NextRun reports the next scheduled firing, zero when unknown.
	NextRun func() time.Time
	// Metrics records request timings; nil disables collection.
	Metrics *perf.Collector

	AdminUser         string
	AdminPasswordHash string
	CSRFKey           string
	TrustedOrigins    []string
}

// Server carries the request handlers and their dependencies.
type Server struct {
	deps Deps
}

// RateLimitPerSecond controls the per-IP rate limit.
const RateLimitPerSecond = 10

// NewMux wires the dashboard and the JSON API behind the middleware chain.
// PRE: deps.Store, deps.SendLog, deps.Fetcher, deps.Sender, deps.Clock, and
// deps.GenerateID are non-nil
// POST: Returns a ready-to-serve handler
func NewMux(deps Deps) (http.Handler, error) {
	s := &Server{deps: deps}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/dashboard/notify", s.handleDashboardNotify)
	mux.HandleFunc("/dashboard/receivers/add", s.handleDashboardAddReceiver)
	mux.HandleFunc("/dashboard/receivers/remove", s.handleDashboardRemoveReceivers)
	mux.HandleFunc("/dashboard/refresh", s.handleDashboardRefresh)
	mux.HandleFunc("/dashboard/test-email", s.handleDashboardTestEmail)
	mux.HandleFunc("/api/test-notification/", s.handleTestNotification)
	mux.HandleFunc("/api/receivers", s.handleReceivers)
	mux.HandleFunc("/api/holidays", s.handleHolidays)
	mux.HandleFunc("/api/update-holidays", s.handleUpdateHolidays)
	mux.HandleFunc("/api/send-log", s.handleSendLog)
	mux.HandleFunc("/api/status", s.handleStatus)

	csrfKey, err := loadCSRFKey(deps.CSRFKey)
	if err != nil {
		return nil, err
	}

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, deps.TrustedOrigins),
		middleware.BasicAuth(deps.AdminUser, deps.AdminPasswordHash),
		middleware.RateLimit(limiter),
		middleware.Timing(deps.Metrics),
	), nil
}

// loadCSRFKey decodes the hex-encoded 32-byte CSRF secret. When empty, a
// random key is generated so form tokens do not survive a restart.
func loadCSRFKey(keyHex string) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("csrf key must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return key, nil
}
