package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/erazemk/foodhub/internal/api"
	"github.com/erazemk/foodhub/internal/catalog"
	"github.com/erazemk/foodhub/internal/config"
	"github.com/erazemk/foodhub/internal/db"
	"github.com/erazemk/foodhub/internal/health"
	"github.com/erazemk/foodhub/internal/metrics"
	"github.com/erazemk/foodhub/internal/model"
	"github.com/erazemk/foodhub/internal/orders"
	"github.com/erazemk/foodhub/internal/pickup"
	"github.com/erazemk/foodhub/internal/store"
)

var errHelp = errors.New("help requested")

// commonFlags are accepted by every command.
type commonFlags struct {
	dbPath  string
	logPath string
}

func newFlagSet(name string, cfg *config.Config, c *commonFlags, help string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&c.dbPath, "db", cfg.DB, "")
	fs.StringVar(&c.dbPath, "d", cfg.DB, "")
	fs.StringVar(&c.logPath, "log", cfg.LogFile, "")
	fs.StringVar(&c.logPath, "l", cfg.LogFile, "")
	fs.Usage = func() {
		fmt.Fprintf(os.Stdout, `Usage: foodhub %s [flags]

Flags:
  -d, -db <path>          SQLite database path (default: %s)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
%s  -h, -help               show this help and exit
`, name, cfg.DB, help)
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}

// app is the wiring shared by all commands.
type app struct {
	db      *sql.DB
	backend *store.SQLite
	store   *store.Store
}

// openApp opens and migrates the database. Commands whose stdout is their
// output pass os.Stderr as logW.
func openApp(cfg *config.Config, c commonFlags, logW io.Writer) (*app, func(), error) {
	closeLog, err := setupLogger(c.logPath, logW)
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Open(c.dbPath)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		closeLog()
		return nil, nil, fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "path", c.dbPath)

	backend := store.NewSQLite(database)
	a := &app{
		db:      database,
		backend: backend,
		store:   store.New(backend, cfg.Seed.Options()),
	}
	return a, func() { database.Close(); closeLog() }, nil
}

func cmdServe(cfg *config.Config, args []string) error {
	var c commonFlags
	var addr string
	fs := newFlagSet("serve", cfg, &c, fmt.Sprintf("  -a, -addr <host:port>   listen address (default: %s)\n", cfg.Addr))
	fs.StringVar(&addr, "addr", cfg.Addr, "")
	fs.StringVar(&addr, "a", cfg.Addr, "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, cleanup, err := openApp(cfg, c, os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	// Pickup tokens stay valid across restarts unless the secret changes.
	secret := cfg.TokenSecret
	if secret == "" {
		if secret, err = store.TokenSecret(context.Background(), a.db); err != nil {
			return fmt.Errorf("loading token secret: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	router := api.NewRouter(api.Deps{
		Catalog:  catalog.NewService(a.store, m),
		Orders:   orders.NewService(a.store, pickup.NewCodec(secret), m),
		DB:       a.db,
		Gatherer: reg,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

func cmdSeed(cfg *config.Config, args []string) error {
	var c commonFlags
	fs := newFlagSet("seed", cfg, &c, "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, cleanup, err := openApp(cfg, c, os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if err := a.backend.Reset(ctx); err != nil {
		return fmt.Errorf("resetting dataset: %w", err)
	}
	snap, err := a.store.Reseed(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %s: %d hubs, %d foods, %d stock rows.\n",
		c.dbPath, len(snap.Providers), len(snap.FoodItems), len(snap.Inventory))
	return nil
}

func cmdSupplier(cfg *config.Config, args []string) error {
	var c commonFlags
	fs := newFlagSet("supplier", cfg, &c, "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, cleanup, err := openApp(cfg, c, os.Stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	ranked, err := catalog.NewService(a.store, nil).SupplierView(context.Background())
	if err != nil {
		return err
	}
	return printSupplier(os.Stdout, ranked)
}

// printSupplier writes one line per hub, most urgent first, followed by its
// rows that need restocking.
func printSupplier(w io.Writer, ranked []health.ProviderSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tHUB\tSTATUS\tRED\tYELLOW")
	for i, sum := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", i+1, sum.Provider.Name, sum.Overall, sum.RedCount, sum.YellowCount)
		for _, line := range sum.Items {
			if line.Status == model.HealthGreen {
				continue
			}
			fmt.Fprintf(tw, "\t  %s\t%s\t%d %s\t\n", line.FoodName, line.Status, line.Quantity, line.Unit)
		}
	}
	return tw.Flush()
}

func cmdExport(cfg *config.Config, args []string) error {
	var c commonFlags
	var outPath string
	fs := newFlagSet("export", cfg, &c, "  -o, -out <path>         write to a file instead of stdout\n")
	fs.StringVar(&outPath, "out", "", "")
	fs.StringVar(&outPath, "o", "", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, cleanup, err := openApp(cfg, c, os.Stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := a.store.Load(context.Background())
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}
