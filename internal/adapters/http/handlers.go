package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"holidayreminder/internal/application/listutil"
	"holidayreminder/internal/application/orchestrators"
	holidayDomain "holidayreminder/internal/domain/holiday"
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// apiHoliday is the wire shape served by the JSON API; it matches the
// persisted state file.
type apiHoliday struct {
	Name        string `json:"holiday_name"`
	Date        string `json:"holiday_date"`
	Description string `json:"holiday_description"`
}

func toAPIHolidays(holidays []holidayDomain.Holiday) []apiHoliday {
	out := make([]apiHoliday, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, apiHoliday{
			Name:        h.Name,
			Date:        h.Date.Format("2006-01-02"),
			Description: h.Description,
		})
	}
	return out
}

// handleTestNotification handles GET /api/test-notification/{offset}: the
// manual trigger mirroring what the daily job would send for that offset.
func (s *Server) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/api/test-notification/")
	offset, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "offset must be an integer", http.StatusBadRequest)
		return
	}

	ok, msg := orchestrators.ExecuteOffsetNotification(r.Context(), s.manualDeps(), offset)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": ok,
		"message": msg,
	})
}

// handleReceivers handles GET/POST/DELETE for /api/receivers. Every branch
// answers with the resulting recipient list.
func (s *Server) handleReceivers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"receivers": s.deps.Store.Receivers()})

	case http.MethodPost:
		var input struct {
			Email string `json:"email"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		_, msg, err := orchestrators.ExecuteAddReceiver(orchestrators.ReceiverDeps{Store: s.deps.Store}, input.Email)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"receivers": s.deps.Store.Receivers(),
			"message":   msg,
		})

	case http.MethodDelete:
		var emails []string
		if email := r.URL.Query().Get("email"); email != "" {
			emails = []string{email}
		} else {
			var input struct {
				Emails []string `json:"emails"`
			}
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "invalid JSON", http.StatusBadRequest)
				return
			}
			emails = input.Emails
		}
		_, msg, err := orchestrators.ExecuteRemoveReceivers(orchestrators.ReceiverDeps{Store: s.deps.Store}, emails)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"receivers": s.deps.Store.Receivers(),
			"message":   msg,
		})

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleHolidays handles GET /api/holidays.
func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"holidays": toAPIHolidays(s.deps.Store.Holidays()),
	})
}

// handleUpdateHolidays handles GET /api/update-holidays: an immediate
// refresh from the upstream API. Stored data survives a failed refresh.
func (s *Server) handleUpdateHolidays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	refreshDeps := orchestrators.RefreshDeps{
		Fetcher: s.deps.Fetcher,
		Store:   s.deps.Store,
		Now:     s.deps.Clock,
	}
	if err := orchestrators.ExecuteRefreshHolidays(r.Context(), refreshDeps); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// sendLogWindow caps how much history the endpoint pages through.
const sendLogWindow = 500

// handleSendLog handles GET /api/send-log?page=N&per_page=M, newest first.
func (s *Server) handleSendLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	params := listutil.ParsePageParams(r.URL.Query())

	entries, err := s.deps.SendLog.ListRecent(r.Context(), sendLogWindow)
	if err != nil {
		internalError(w, err)
		return
	}
	info := listutil.NewPageInfo(params.Page, params.PerPage, len(entries))
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":     entries[info.Offset():info.End()],
		"page":        info.Page,
		"per_page":    info.PerPage,
		"total":       info.Total,
		"total_pages": info.TotalPages,
	})
}

// handleStatus handles GET /api/status: a small health and scheduling
// summary for monitoring.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	status := map[string]any{
		"holidays":  len(s.deps.Store.Holidays()),
		"receivers": len(s.deps.Store.Receivers()),
		"time":      s.deps.Clock().Format("2006-01-02 15:04:05"),
	}
	if s.deps.HolidayAPIURL != "" {
		status["holiday_api"] = s.deps.HolidayAPIURL
	}
	if s.deps.NextRun != nil {
		if next := s.deps.NextRun(); !next.IsZero() {
			status["next_run"] = next.Format("2006-01-02 15:04:05")
		}
	}
	if s.deps.Metrics != nil {
		snap := s.deps.Metrics.Snapshot(s.deps.Clock().Add(-time.Hour), 5)
		status["requests"] = map[string]any{
			"total":  snap.TotalRequests,
			"p50_ms": snap.P50Ms,
			"p95_ms": snap.P95Ms,
			"p99_ms": snap.P99Ms,
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) notifyDeps() orchestrators.NotifyDeps {
	return orchestrators.NotifyDeps{
		Sender:      s.deps.Sender,
		SendLog:     s.deps.SendLog,
		FromAddress: s.deps.FromAddress,
		ReplyTo:     s.deps.ReplyTo,
		GenerateID:  s.deps.GenerateID,
		Now:         s.deps.Clock,
	}
}

func (s *Server) manualDeps() orchestrators.ManualNotifyDeps {
	return orchestrators.ManualNotifyDeps{
		Store:  s.deps.Store,
		Notify: s.notifyDeps(),
	}
}
