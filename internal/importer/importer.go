// Package importer adds cards from markdown notes, held in a local
// directory or a git repository, to the stored deck.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/conorfennell/flashdeck/internal/cardkey"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/gitsource"
	"github.com/conorfennell/flashdeck/internal/parser"
)

// Store is the card blob the importer merges into.
type Store interface {
	Load(ctx context.Context) []domain.Card
	Save(ctx context.Context, cards []domain.Card) error
}

// Result summarizes an import.
type Result struct {
	Files      int
	Parsed     int
	Added      int
	Duplicates int
	Invalid    int
	// Errors holds per-file failures that did not stop the import.
	Errors []error
}

// Importer merges markdown decks into a Store.
type Importer struct {
	store    Store
	reposDir string
	logger   *slog.Logger
}

// New returns an Importer that checks git sources out under reposDir.
func New(store Store, reposDir string, logger *slog.Logger) *Importer {
	return &Importer{
		store:    store,
		reposDir: reposDir,
		logger:   logger.With("component", "importer"),
	}
}

// Import reads every .md file under source and appends the cards not
// already in the deck, keeping the deck's existing order. source is either
// a directory or a git URL, which is cloned or pulled first.
func (im *Importer) Import(ctx context.Context, source string) (Result, error) {
	dir := source
	if gitsource.IsRemote(source) {
		localPath, err := gitsource.LocalPath(im.reposDir, source)
		if err != nil {
			return Result{}, err
		}
		if err := gitsource.Sync(ctx, source, localPath, im.logger); err != nil {
			return Result{}, err
		}
		dir = localPath
	}

	existing := im.store.Load(ctx)
	seen := cardkey.NewSet(existing)
	var added []domain.Card
	var res Result

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		res.Files++
		fileCards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			res.Errors = append(res.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		for _, raw := range fileCards {
			res.Parsed++
			card, err := domain.NewCard(raw.Prompt, raw.Answer)
			if err != nil {
				res.Invalid++
				im.logger.Debug("skipping card", "path", path, "prompt", raw.Prompt, "error", err)
				continue
			}
			if !seen.Add(card) {
				res.Duplicates++
				continue
			}
			added = append(added, card)
		}
		return nil
	})
	if walkErr != nil {
		return res, fmt.Errorf("error walking directory %s: %w", dir, walkErr)
	}

	res.Added = len(added)
	if len(added) > 0 {
		if err := im.store.Save(ctx, append(existing, added...)); err != nil {
			return res, err
		}
	}

	im.logger.Info("import complete",
		"source", source,
		"files", res.Files,
		"parsed_cards", res.Parsed,
		"added", res.Added,
		"duplicates", res.Duplicates,
		"invalid", res.Invalid,
		"errors", len(res.Errors),
	)
	return res, errors.Join(res.Errors...)
}
