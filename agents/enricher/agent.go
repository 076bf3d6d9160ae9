package enricher

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"video-gallery/agents/enricher/twitch"
	"video-gallery/agents/enricher/youtube"
	"video-gallery/internal/models"
	"video-gallery/shared/config"
	"video-gallery/shared/email"
	"video-gallery/shared/embed"
	"video-gallery/shared/records"
	"video-gallery/shared/scheduler"
	"video-gallery/shared/storage"
)

// Fetcher looks up metadata for one normalized video URL.
type Fetcher interface {
	Fetch(ctx context.Context, link string) (models.VideoInfo, error)
}

// EnrichMetrics represents the metrics collected during an enrichment run
type EnrichMetrics struct {
	UniqueURLs int  `json:"unique_urls"`
	Fetched    int  `json:"fetched"`
	Failed     int  `json:"failed"`
	Pruned     int  `json:"pruned"`
	Rows       int  `json:"rows"`
	Flagged    int  `json:"flagged"`
	EmailSent  bool `json:"email_sent"`
}

// GetSummary implements the scheduler.Metrics interface
func (m EnrichMetrics) GetSummary() string {
	summary := fmt.Sprintf("%d unique URLs, %d fetched", m.UniqueURLs, m.Fetched)
	if m.Failed > 0 {
		summary += fmt.Sprintf(" (%d failed)", m.Failed)
	}
	summary += fmt.Sprintf(", %d rows written, %d flagged", m.Rows, m.Flagged)
	if m.EmailSent {
		summary += ", audit email sent"
	}
	return summary
}

// EnricherAgent implements the scheduler.Agent interface
type EnricherAgent struct {
	config      *config.Config
	youtube     Fetcher
	twitch      Fetcher
	cache       *storage.InfoCache
	emailSender *email.Sender
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewEnricherAgent(cfg *config.Config) *EnricherAgent {
	return &EnricherAgent{
		config: cfg,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

func (e *EnricherAgent) Name() string {
	return "Video Enricher"
}

func (e *EnricherAgent) Initialize() error {
	log.Printf("Initializing %s...", e.Name())

	if err := e.config.ValidateEnricher(); err != nil {
		return err
	}

	if e.youtube == nil {
		client, err := youtube.NewClient(context.Background(), &e.config.Enrich)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		e.youtube = client
		log.Println("YouTube client initialized")
	}

	if e.twitch == nil {
		e.twitch = twitch.NewClient(&e.config.Enrich)
		log.Println("Twitch client initialized")
	}

	if e.cache == nil {
		cache, err := storage.NewInfoCache(e.config.Data.CachePath)
		if err != nil {
			return fmt.Errorf("failed to open video info cache: %w", err)
		}
		e.cache = cache
		log.Printf("Video info cache initialized (%d URLs cached)", cache.Len())
	}

	if e.emailSender == nil && e.config.Email.Enabled() {
		e.emailSender = email.NewSender(&e.config.Email)
		log.Println("Email sender initialized")
	}

	return nil
}

func (e *EnricherAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	metrics := EnrichMetrics{}
	linkFields := e.config.Data.LinkFields

	rows, err := records.ReadRows(e.config.Data.RawPath)
	if err != nil {
		return fmt.Errorf("failed to read raw rows: %w", err)
	}

	retryAfter := time.Duration(e.config.Enrich.RefetchAfterDays) * 24 * time.Hour
	metrics.Pruned = e.cache.Prune(e.now(), retryAfter, twitch.PlaceholderThumbnail)
	if metrics.Pruned > 0 {
		log.Printf("Pruned %d cache entries for refetch", metrics.Pruned)
	}

	wanted, unique := e.uncachedURLs(rows, linkFields)
	metrics.UniqueURLs = unique
	log.Printf("Found %d unique URLs, %d new to fetch", unique, len(wanted))

	delay := time.Duration(e.config.Enrich.SleepMS) * time.Millisecond
	for i, link := range wanted {
		if i > 0 {
			if err := e.sleep(ctx, delay); err != nil {
				e.saveCache()
				return fmt.Errorf("enrichment interrupted: %w", err)
			}
		}

		log.Printf("[%d/%d] Fetching: %s", i+1, len(wanted), link)
		info, err := e.fetch(ctx, link)
		if err != nil {
			log.Printf("Warning: Failed to fetch %s: %v", link, err)
			info = models.VideoInfo{Source: models.SourceError, Error: err.Error()}
			metrics.Failed++
		}
		info.FetchedAt = e.now().UTC().Truncate(time.Second)
		e.cache.Put(link, info)
		metrics.Fetched++
	}

	if err := e.cache.Save(); err != nil {
		return err
	}
	if metrics.Failed > 0 && events != nil && events.OnPartialFailure != nil {
		events.OnPartialFailure(fmt.Errorf("%d of %d fetches failed", metrics.Failed, len(wanted)), time.Since(startTime))
	}

	entries := e.cache.Entries()
	enriched := EnrichRows(rows, entries, linkFields)
	outPath := records.ResolvePath(e.config.Data.EnrichedPath, e.config.EnrichedCandidates()...)
	if err := records.WriteRows(outPath, enriched); err != nil {
		return fmt.Errorf("failed to write enriched rows: %w", err)
	}
	metrics.Rows = len(enriched)
	log.Printf("Wrote %d enriched rows to %s", len(enriched), outPath)

	report := Audit(rows, entries, linkFields, e.config.Expiry.Policy(), e.now())
	metrics.Flagged = len(report.Flagged)
	logAudit(report)

	if e.emailSender != nil && len(report.Flagged) > 0 {
		if err := e.emailSender.SendAuditReport(report); err != nil {
			log.Printf("Warning: Failed to send audit email: %v", err)
			if events != nil && events.OnPartialFailure != nil {
				events.OnPartialFailure(fmt.Errorf("failed to send audit email: %w", err), time.Since(startTime))
			}
		} else {
			metrics.EmailSent = true
			log.Println("Audit email sent successfully")
		}
	}

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}
	return nil
}

// uncachedURLs returns the normalized links not yet in the cache, in row
// order, and the number of distinct links seen.
func (e *EnricherAgent) uncachedURLs(rows []records.Row, linkFields []string) ([]string, int) {
	seen := make(map[string]bool)
	var wanted []string
	for _, row := range rows {
		if !row.IsObject() {
			continue
		}
		for _, field := range linkFields {
			link := NormalizeURL(row.Get(field))
			if link == "" || seen[link] {
				continue
			}
			seen[link] = true
			if !e.cache.Has(link) {
				wanted = append(wanted, link)
			}
		}
	}
	return wanted, len(seen)
}

// fetch routes link to the client for its platform.
func (e *EnricherAgent) fetch(ctx context.Context, link string) (models.VideoInfo, error) {
	u, err := url.Parse(link)
	if err != nil {
		return models.VideoInfo{Source: models.SourceUnknown}, nil
	}

	host := strings.ToLower(u.Hostname())
	for _, m := range embed.Matchers {
		if !m.Match(host) {
			continue
		}
		switch m.Provider {
		case models.ProviderYouTube:
			return e.youtube.Fetch(ctx, link)
		case models.ProviderTwitch:
			return e.twitch.Fetch(ctx, link)
		}
	}
	return models.VideoInfo{Source: models.SourceUnknown}, nil
}

func (e *EnricherAgent) saveCache() {
	if err := e.cache.Save(); err != nil {
		log.Printf("Warning: %v", err)
	}
}

// EnrichRows copies rows, adding the cached title and thumbnail next to every
// link column. Rows that are not objects pass through unchanged.
func EnrichRows(rows []records.Row, cache map[string]models.VideoInfo, linkFields []string) []records.Row {
	enriched := make([]records.Row, 0, len(rows))
	for _, row := range rows {
		if !row.IsObject() {
			enriched = append(enriched, row)
			continue
		}

		out := row.Clone()
		for _, field := range linkFields {
			info := cache[NormalizeURL(row.Get(field))]
			out.Set(records.TitleColumn(field), info.Title)
			out.Set(records.ThumbnailColumn(field), info.Thumbnail)
		}
		enriched = append(enriched, out)
	}
	return enriched
}

func logAudit(report *models.AuditReport) {
	log.Printf("Checked %d cached URLs, skipped %d", report.Checked, report.Skipped)
	log.Printf("Found %d URLs missing title and/or thumbnail", len(report.Flagged))
	for _, entry := range report.Flagged {
		log.Printf("- %s", entry)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
