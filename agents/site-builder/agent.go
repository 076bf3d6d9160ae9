package sitebuilder

import (
	"context"
	"fmt"
	"log"
	"time"

	"video-gallery/shared/config"
	"video-gallery/shared/embed"
	"video-gallery/shared/publish"
	"video-gallery/shared/records"
	"video-gallery/shared/scheduler"
	"video-gallery/shared/site"
	"video-gallery/shared/thumbnail"
)

// Uploader copies a built site somewhere it can be served from.
type Uploader interface {
	Upload(ctx context.Context, dir string) (int, error)
}

// BuildMetrics represents the metrics collected during a site build
type BuildMetrics struct {
	Videos    int  `json:"videos"`
	Months    int  `json:"months"`
	Redirects int  `json:"redirects"`
	Assets    int  `json:"assets"`
	Uploaded  int  `json:"uploaded"`
	Published bool `json:"published"`
}

// GetSummary implements the scheduler.Metrics interface
func (m BuildMetrics) GetSummary() string {
	summary := fmt.Sprintf("%d videos across %d months, %d redirects, %d assets",
		m.Videos, m.Months, m.Redirects, m.Assets)
	if m.Published {
		summary += fmt.Sprintf(", %d files uploaded", m.Uploaded)
	}
	return summary
}

// SiteBuilderAgent implements the scheduler.Agent interface
type SiteBuilderAgent struct {
	config   *config.Config
	renderer *site.Renderer
	uploader Uploader
	onBuild  func(*site.Gallery)
}

func NewSiteBuilderAgent(cfg *config.Config) *SiteBuilderAgent {
	return &SiteBuilderAgent{
		config: cfg,
	}
}

func (s *SiteBuilderAgent) Name() string {
	return "Site Builder"
}

// Renderer returns the renderer shared with the live server.
func (s *SiteBuilderAgent) Renderer() *site.Renderer {
	return s.renderer
}

// OnBuild registers fn to receive every freshly loaded gallery.
func (s *SiteBuilderAgent) OnBuild(fn func(*site.Gallery)) {
	s.onBuild = fn
}

func (s *SiteBuilderAgent) Initialize() error {
	log.Printf("Initializing %s...", s.Name())

	if err := s.config.ValidatePublish(); err != nil {
		return err
	}

	if s.renderer == nil {
		s.renderer = NewRenderer(s.config)
		log.Printf("Renderer initialized for %s", s.renderer.Site.URL)
	}

	if s.uploader == nil && s.config.Publish.Enabled() {
		publisher, err := publish.New(context.Background(), s.config.Publish)
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		s.uploader = publisher
		log.Printf("Publisher initialized for bucket %s", s.config.Publish.Bucket)
	}

	return nil
}

func (s *SiteBuilderAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	metrics := BuildMetrics{}

	path := records.ResolvePath(s.config.Data.EnrichedPath, s.config.EnrichedCandidates()...)
	log.Printf("Loading video records from %s", path)
	gallery := site.NewGallery(records.Load(path))

	result, err := s.renderer.Build(s.config.Site.OutputDir, gallery, s.config.Site.AssetDir)
	if err != nil {
		return fmt.Errorf("failed to build site: %w", err)
	}
	metrics.Videos = result.Videos
	metrics.Months = result.Months
	metrics.Redirects = result.Redirects
	metrics.Assets = result.Assets
	log.Printf("Built %d months into %s", result.Months, s.config.Site.OutputDir)

	if s.onBuild != nil {
		s.onBuild(gallery)
	}

	if s.uploader != nil {
		uploaded, err := s.uploader.Upload(ctx, s.config.Site.OutputDir)
		metrics.Uploaded = uploaded
		if err != nil {
			log.Printf("Warning: Failed to publish site: %v", err)
			if events != nil && events.OnPartialFailure != nil {
				events.OnPartialFailure(fmt.Errorf("failed to publish site: %w", err), time.Since(startTime))
			}
		} else {
			metrics.Published = true
		}
	}

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}
	return nil
}

// NewRenderer builds a page renderer from the site configuration.
func NewRenderer(cfg *config.Config) *site.Renderer {
	builder := embed.NewBuilder(cfg.Site.URL, cfg.Expiry.Policy())
	if cfg.Site.ParentHost != "" {
		builder.Parent = cfg.Site.ParentHost
	}

	return &site.Renderer{
		Site: site.Options{
			Name:            cfg.Site.Name,
			Description:     cfg.Site.Description,
			URL:             cfg.Site.URL,
			SocialImagePath: cfg.Site.SocialImagePath,
		},
		Builder: builder,
		Thumbnails: &thumbnail.Selector{
			Images:      cfg.Site.FallbackImages,
			LocalPrefix: cfg.Site.AssetPrefix,
		},
	}
}
