package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sitebuilder "video-gallery/agents/site-builder"
	"video-gallery/shared/config"
	"video-gallery/shared/scheduler"
	"video-gallery/shared/site"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := sitebuilder.NewSiteBuilderAgent(cfg)

	mode := ""
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "--once":
		s := scheduler.New(cfg, agent)
		fmt.Println("Building once...")
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Fatalf("Failed to run: %v", err)
		}
		return

	case "--serve":
		// The gallery server exposes health itself and needs a first build
		// before the schedule fires.
		s := scheduler.New(cfg, agent, scheduler.WithHealthPort(0), scheduler.WithRunOnStart())
		if err := serve(ctx, cfg, agent, s); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	s := scheduler.New(cfg, agent)
	fmt.Println("Starting scheduler...")
	if err := s.Start(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

// serve runs the live gallery next to the rebuild schedule. Each rebuild,
// including the one run on start, swaps the served gallery.
func serve(ctx context.Context, cfg *config.Config, agent *sitebuilder.SiteBuilderAgent, s *scheduler.Scheduler) error {
	if err := agent.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	server := site.NewServer(site.ServerConfig{
		Renderer: agent.Renderer(),
		AssetDir: cfg.Site.AssetDir,
		Health:   s.Monitor(),
	})
	agent.OnBuild(server.SetGallery)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Site.Port),
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: server shutdown: %v", err)
		}
	}()

	go func() {
		log.Printf("Gallery server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Gallery server error: %v", err)
		}
	}()

	if err := s.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
