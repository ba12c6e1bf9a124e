// Command jobfill fills job application forms from a stored profile.
//
// Usage:
//
//	jobfill -url https://boards.greenhouse.io/acme/jobs/1   # live tab with trigger overlay
//	jobfill -url <url> -http                                # plus the local control API
//	jobfill -url <url> -mcp                                 # plus MCP tools over stdio
//	jobfill -inspect form.html                              # describe fields, questions, profile
//	jobfill -inspect form.html -dry-run -profile p.json     # fill the static page, print the report
//	jobfill -import-profile profile.json                    # store a profile and exit
//	jobfill -resume resume.pdf                              # store resume text and exit
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/jobfill/autofill"
	"github.com/hazyhaar/jobfill/dbopen"
	"github.com/hazyhaar/jobfill/enrich"
	"github.com/hazyhaar/jobfill/host"
	"github.com/hazyhaar/jobfill/profile"
	"github.com/hazyhaar/jobfill/profile/store"
	"github.com/hazyhaar/jobfill/resume"
)

const version = "0.3.0"

type flags struct {
	config        string
	url           string
	inspect       string
	dryRun        bool
	profile       string
	importProfile string
	resume        string
	mcp           bool
	http          bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "path to jobfill.yaml config file")
	flag.StringVar(&f.url, "url", "", "open a live browser tab on this URL")
	flag.StringVar(&f.inspect, "inspect", "", "inspect a page (URL or HTML file) without filling")
	flag.BoolVar(&f.dryRun, "dry-run", false, "with -inspect: fill the static page and print the report")
	flag.StringVar(&f.profile, "profile", "", "use this profile JSON file instead of the store")
	flag.StringVar(&f.importProfile, "import-profile", "", "store a profile JSON file and exit")
	flag.StringVar(&f.resume, "resume", "", "store a resume file's text in the profile and exit")
	flag.BoolVar(&f.mcp, "mcp", false, "serve MCP tools over stdio")
	flag.BoolVar(&f.http, "http", false, "serve the control API on http.addr")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// .env is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("jobfill: .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, f); err != nil {
		logger.Error("jobfill: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, f flags) error {
	cfg, err := autofill.LoadConfigFile(f.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)

	st, err := store.Open(cfg.Coordinator.DBPath, dbopen.WithMkdirAll())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	switch {
	case f.importProfile != "":
		return importProfile(ctx, logger, st, cfg.Coordinator.ProfileID, f.importProfile)
	case f.resume != "":
		return importResume(ctx, logger, st, cfg.Coordinator.ProfileID, f.resume)
	case f.url == "" && f.inspect == "":
		fmt.Fprintln(os.Stderr, "usage: jobfill -url <url> | -inspect <url|file> [-dry-run] | -import-profile <file> | -resume <file>")
		os.Exit(2)
	}

	ctl, err := newController(cfg, st, f.profile, logger)
	if err != nil {
		return err
	}

	if f.inspect != "" && !f.mcp && !f.http {
		return inspect(ctx, logger, cfg, ctl, f.inspect, f.dryRun)
	}

	var src autofill.Source
	if f.url != "" {
		s, err := autofill.OpenSession(ctx, ctl, cfg, f.url, logger)
		if err != nil {
			return fmt.Errorf("open session: %w", err)
		}
		defer s.Close()
		src = s
	} else {
		doc, closeFn, err := loadDocument(ctx, logger, cfg, ctl, f.inspect)
		if err != nil {
			return err
		}
		defer closeFn()
		src = autofill.StaticSource{Doc: doc}
	}
	svc := autofill.NewService(ctl, src, st, logger)

	errc := make(chan error, 2)
	if f.http {
		go func() { errc <- serveHTTP(ctx, logger, cfg.HTTP.Addr, svc) }()
	}
	if f.mcp {
		go func() { errc <- serveMCP(ctx, svc) }()
	}
	logger.Info("jobfill: running", "url", f.url, "http", f.http, "mcp", f.mcp)

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			return err
		}
		<-ctx.Done()
	}
	logger.Info("jobfill: shutting down")
	return nil
}

func newController(cfg *autofill.Config, st *store.Store, profilePath string, logger *slog.Logger) (*autofill.Controller, error) {
	detector, err := host.NewDetector(cfg.Coordinator.Platforms)
	if err != nil {
		return nil, fmt.Errorf("platforms: %w", err)
	}

	var coord host.Coordinator = host.NewLocal(st, cfg.Coordinator.ProfileID, detector)
	if profilePath != "" {
		data, err := os.ReadFile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("read profile: %w", err)
		}
		p, err := profile.Parse(data)
		if err != nil {
			return nil, err
		}
		coord = &host.Static{Profile: p, Detector: detector}
	}

	sinks := autofill.SinksFromConfig(cfg.Sinks, logger)
	sinks = append(sinks, autofill.NewCallbackSink(st.SaveRun))

	opts := autofill.EngineOptions(cfg)
	opts.Coordinator = coord
	opts.Sink = autofill.NewRouter(logger, sinks...)
	opts.Logger = logger

	if cfg.Enrichment.Enabled {
		client := enrich.NewClient(cfg.Enrichment.URL,
			enrich.WithHTTPClient(&http.Client{Timeout: cfg.Enrichment.Timeout}),
			enrich.WithBreaker(enrich.NewBreaker(
				enrich.WithBreakerThreshold(cfg.Enrichment.BreakerThreshold),
				enrich.WithBreakerResetTimeout(cfg.Enrichment.BreakerReset),
			)),
			enrich.WithLogger(logger),
		)
		opts.Enricher = enrich.NewEnricher(client, logger)
	}
	return autofill.New(opts), nil
}

func importProfile(ctx context.Context, logger *slog.Logger, st *store.Store, id, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	p, err := profile.Parse(data)
	if err != nil {
		return err
	}
	if err := st.SaveProfile(ctx, id, p); err != nil {
		return err
	}
	logger.Info("jobfill: profile imported", "id", id, "keys", len(p.Keys()))
	return nil
}

func importResume(ctx context.Context, logger *slog.Logger, st *store.Store, id, path string) error {
	text, err := resume.ReadFile(path)
	if err != nil {
		return err
	}
	p, err := st.LoadProfile(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		p = profile.Profile{}
	} else if err != nil {
		return err
	}
	p.Set("documents.resumeText", text)
	if err := st.SaveProfile(ctx, id, p); err != nil {
		return err
	}
	logger.Info("jobfill: resume stored", "id", id, "chars", len(text))
	return nil
}

// inspect prints what a run would see on target, or with dryRun fills
// the static document and prints the report.
func inspect(ctx context.Context, logger *slog.Logger, cfg *autofill.Config, ctl *autofill.Controller, target string, dryRun bool) error {
	doc, closeFn, err := loadDocument(ctx, logger, cfg, ctl, target)
	if err != nil {
		return err
	}
	defer closeFn()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if dryRun {
		run, err := ctl.Trigger(ctx, doc)
		if run == nil {
			return fmt.Errorf("dry run: %w", err)
		}
		return enc.Encode(run.Report())
	}

	fields, err := ctl.DescribeFields(ctx, doc)
	if err != nil {
		return fmt.Errorf("describe: %w", err)
	}
	questions, err := ctl.QuestionTexts(ctx, doc)
	if err != nil {
		return fmt.Errorf("questions: %w", err)
	}
	return enc.Encode(map[string]any{
		"url":       doc.URL(),
		"fields":    fields,
		"questions": questions,
		"profile":   ctl.DumpProfile(ctx),
	})
}

// loadDocument parses target statically when its HTML already carries the
// form, and falls back to a headless browser tab otherwise.
func loadDocument(ctx context.Context, logger *slog.Logger, cfg *autofill.Config, ctl *autofill.Controller, target string) (autofill.Document, func(), error) {
	res, err := autofill.Fetch(ctx, target, logger)
	if err != nil {
		return nil, nil, err
	}
	if res.Sufficient || !res.Remote {
		doc, err := autofill.ParseHTML(bytes.NewReader(res.HTML), res.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", target, err)
		}
		return doc, func() {}, nil
	}

	logger.Info("jobfill: static HTML has no form, using the browser", "url", target)
	bcfg := *cfg
	bcfg.Browser.Stealth = "headless"
	s, err := autofill.OpenSession(ctx, ctl, &bcfg, target, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	doc, err := s.Document(ctx)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return doc, func() { s.Close() }, nil
}

func serveHTTP(ctx context.Context, logger *slog.Logger, addr string, svc *autofill.Service) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	logger.Info("jobfill: http listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, svc *autofill.Service) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "jobfill", Version: version}, nil)
	svc.RegisterMCP(srv)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
