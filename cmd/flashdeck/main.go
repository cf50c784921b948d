package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/haptics"
	"github.com/conorfennell/flashdeck/internal/importer"
	"github.com/conorfennell/flashdeck/internal/lifecycle"
	"github.com/conorfennell/flashdeck/internal/logger"
	"github.com/conorfennell/flashdeck/internal/loop"
	"github.com/conorfennell/flashdeck/internal/storage"
	"github.com/conorfennell/flashdeck/internal/study"
	"github.com/conorfennell/flashdeck/internal/web"
)

const usage = `Usage: flashdeck [command] [flags]

Commands:
  serve                  Run the review web app (default)
  import --source SRC    Import Q:/A: markdown cards from a directory or git URL
  cards list             Print the stored deck
  cards add              Add a card (--prompt, --answer or --example)
  cards clear            Delete the stored deck

Run "flashdeck <command> --help" for the flags of a command.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "flashdeck: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		return serve(ctx, args, stderr)
	case "import":
		return importCards(ctx, args, stdout, stderr)
	case "cards":
		return cards(ctx, args, stdout, stderr)
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// app is what every command needs: validated config, a logger and the open
// card store.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *storage.DB
	cards  *storage.CardStore
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	return fs
}

func setup(ctx context.Context, fs *pflag.FlagSet, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(fs)
	if err != nil {
		return nil, err
	}
	log, err := logger.Setup(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, cfg.DB.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Debug("database opened", "path", cfg.DB.Path)

	return &app{cfg: cfg, logger: log, db: db, cards: storage.NewCardStore(db, log)}, nil
}

func serve(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := setup(ctx, fs, stderr)
	if err != nil {
		return err
	}
	defer a.db.Close()

	buffer := haptics.NewBuffer()
	player := haptics.NewPlayer(buffer, a.cfg.Haptics.Enabled, a.logger)

	s := study.New(study.Config{
		SessionSeconds: a.cfg.Study.SessionSeconds,
		Settings:       a.cfg.Settings(),
		Accessibility:  a.cfg.AccessibilityModes(),
	}, a.cards, player, a.logger)
	s.ResetSession(ctx)

	lp := loop.New(s, a.cfg.Study.TickInterval, a.logger)
	lp.Start()
	defer lp.Stop()

	hub := lifecycle.NewHub(a.logger)
	hub.Subscribe(lifecycle.HandlerFunc(func(ctx context.Context, event lifecycle.Event) error {
		return lp.Do(ctx, func(s *study.Study) error {
			s.HandleLifecycle(event)
			return nil
		})
	}))

	handler, err := web.NewServer(lp, hub, a.cards, buffer, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "addr", "http://"+a.cfg.HTTP.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func importCards(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("import", stderr)
	source := fs.String("source", ".", "Directory or git URL to import markdown decks from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := setup(ctx, fs, stderr)
	if err != nil {
		return err
	}
	defer a.db.Close()

	res, err := importer.New(a.cards, a.cfg.Import.ReposDir, a.logger).Import(ctx, *source)
	fmt.Fprintf(stdout, "Scanned %d files: %d cards parsed, %d added, %d duplicates, %d invalid.\n",
		res.Files, res.Parsed, res.Added, res.Duplicates, res.Invalid)
	if len(res.Errors) > 0 {
		fmt.Fprintln(stdout, "\nErrors:")
		for _, e := range res.Errors {
			fmt.Fprintf(stdout, "- %s\n", e)
		}
	}
	return err
}

func cards(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("cards needs a subcommand: list, add or clear")
	}
	sub, args := args[0], args[1:]

	fs := newFlagSet("cards "+sub, stderr)
	var prompt, answer *string
	var example *bool
	if sub == "add" {
		prompt = fs.String("prompt", "", "Card prompt")
		answer = fs.String("answer", "", "Card answer")
		example = fs.Bool("example", false, "Add the example card")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch sub {
	case "list", "add", "clear":
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown cards command %q", sub)
	}

	a, err := setup(ctx, fs, stderr)
	if err != nil {
		return err
	}
	defer a.db.Close()

	switch sub {
	case "list":
		return listCards(a.cards.Load(ctx), stdout)
	case "add":
		card := domain.ExampleCard()
		if !*example {
			if card, err = domain.NewCard(*prompt, *answer); err != nil {
				return err
			}
		}
		// New cards go to the front, as in the editor.
		deck := append([]domain.Card{card}, a.cards.Load(ctx)...)
		if err := a.cards.Save(ctx, deck); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %q. The deck has %d cards.\n", card.Prompt, len(deck))
		return nil
	default:
		if err := a.cards.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Deck cleared.")
		return nil
	}
}

func listCards(deck []domain.Card, w io.Writer) error {
	if len(deck) == 0 {
		_, err := fmt.Fprintln(w, "No cards.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPROMPT\tANSWER")
	for i, c := range deck {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, c.Prompt, c.Answer)
	}
	return tw.Flush()
}
