package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"holidayreminder/internal/application/orchestrators"
	"holidayreminder/internal/application/projections"
	sendlogDomain "holidayreminder/internal/domain/sendlog"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

// mdRenderer converts holiday descriptions to HTML. WithUnsafe is not
// set, so raw HTML in the markdown input stays escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"renderMarkdown": func(md string) template.HTML {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(md))
		}
		return template.HTML(buf.String())
	},
}).ParseFS(templateFS, "templates/dashboard.html"))

type dashboardData struct {
	CSRFField template.HTML
	Flash     string
	FlashOK   bool
	NextRun   string

	projections.DashboardResult
	SendLog []sendlogDomain.Entry
}

// handleDashboard renders the main page: upcoming holidays, a two-month
// calendar, recipient management, and the recent send log.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	now := s.deps.Clock()

	data := dashboardData{
		CSRFField:       csrf.TemplateField(r),
		Flash:           r.URL.Query().Get("msg"),
		FlashOK:         r.URL.Query().Get("ok") != "0",
		DashboardResult: projections.GetDashboard(now, s.deps.Store.Holidays(), s.deps.Store.Receivers()),
	}
	if s.deps.NextRun != nil {
		if next := s.deps.NextRun(); !next.IsZero() {
			data.NextRun = next.Format("2006-01-02 15:04")
		}
	}

	if entries, err := s.deps.SendLog.ListRecent(r.Context(), 10); err == nil {
		data.SendLog = entries
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		internalError(w, err)
	}
}

// redirectFlash sends the browser back to the dashboard with a one-shot
// message in the query string.
func redirectFlash(w http.ResponseWriter, r *http.Request, ok bool, msg string) {
	q := url.Values{"msg": {msg}}
	if !ok {
		q.Set("ok", "0")
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

// handleDashboardNotify handles the manual notification form: send every
// holiday within the chosen window, optionally to a single test address.
func (s *Server) handleDashboardNotify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	rangeDays := 30
	if raw := r.FormValue("range_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 365 {
			redirectFlash(w, r, false, "Rentang hari tidak valid")
			return
		}
		rangeDays = n
	}
	override := r.FormValue("override_email")

	ok, msg := orchestrators.ExecuteRangeNotification(r.Context(), s.manualDeps(), rangeDays, override)
	redirectFlash(w, r, ok, msg)
}

// handleDashboardAddReceiver handles the add-recipient form.
func (s *Server) handleDashboardAddReceiver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	ok, msg, err := orchestrators.ExecuteAddReceiver(orchestrators.ReceiverDeps{Store: s.deps.Store}, r.FormValue("email"))
	if err != nil {
		internalError(w, err)
		return
	}
	redirectFlash(w, r, ok, msg)
}

// handleDashboardRemoveReceivers handles the remove-recipients form
// (checkbox list named "emails").
func (s *Server) handleDashboardRemoveReceivers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	removed, msg, err := orchestrators.ExecuteRemoveReceivers(orchestrators.ReceiverDeps{Store: s.deps.Store}, r.PostForm["emails"])
	if err != nil {
		internalError(w, err)
		return
	}
	redirectFlash(w, r, removed > 0, msg)
}

// handleDashboardRefresh handles the refresh-now button.
func (s *Server) handleDashboardRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	refreshDeps := orchestrators.RefreshDeps{
		Fetcher: s.deps.Fetcher,
		Store:   s.deps.Store,
		Now:     s.deps.Clock,
	}
	if err := orchestrators.ExecuteRefreshHolidays(r.Context(), refreshDeps); err != nil {
		redirectFlash(w, r, false, "Gagal memperbarui data hari libur")
		return
	}
	redirectFlash(w, r, true, "Data hari libur berhasil diperbarui")
}

// handleDashboardTestEmail handles the configuration test form.
func (s *Server) handleDashboardTestEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	deps := orchestrators.TestEmailDeps{
		Store:         s.deps.Store,
		Notify:        s.notifyDeps(),
		TransportInfo: s.deps.TransportInfo,
	}
	ok, msg := orchestrators.ExecuteTestEmail(r.Context(), deps, r.FormValue("email"))
	redirectFlash(w, r, ok, msg)
}
