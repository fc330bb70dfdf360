package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/config"
	"github.com/bankfeed-dev/bankfeed/internal/enrich"
	"github.com/bankfeed-dev/bankfeed/internal/importer"
	"github.com/bankfeed-dev/bankfeed/internal/ingestlog"
	"github.com/bankfeed-dev/bankfeed/internal/logger"
	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/store"
)

// transactionsFile is the normalized output under the data dir.
const transactionsFile = "transactions.csv"

func newIngestCommand() *cobra.Command {
	var backfill bool

	cmd := &cobra.Command{
		Use:   "ingest [directory]",
		Short: "Normalize new statement exports from the input directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			cfg, err := config.Load(filepath.Join(root, config.FileName))
			if err != nil {
				return err
			}
			return runIngest(root, cfg, backfill, logger.New())
		},
	}

	cmd.Flags().BoolVar(&backfill, "backfill-balance", false,
		"back-fill per-transaction balances from configured anchors for sources without one")
	return cmd
}

func runIngest(root string, cfg *config.Config, backfill bool, log zerolog.Logger) error {
	registry := importer.DefaultRegistry()

	seen, err := ingestlog.Hashes(root)
	if err != nil {
		return err
	}

	files, err := importer.Scan(filepath.Join(root, cfg.InputDir))
	if err != nil {
		return err
	}
	log.Info().Int("files", len(files)).Str("dir", cfg.InputDir).Msg("scanned input directory")

	dataPath := filepath.Join(root, cfg.DataDir, transactionsFile)
	txns, err := store.ReadFile(dataPath)
	if err != nil {
		return err
	}

	var entries []ingestlog.Entry
	for _, f := range files {
		sum, err := importer.FileSHA256(f.Path)
		if err != nil {
			return err
		}
		if seen[sum] {
			log.Debug().Str("file", f.Name).Msg("already ingested, skipping")
			continue
		}

		mapped, skipped, mapper, err := ingestFile(registry, f)
		if err != nil {
			return err
		}

		txns = append(txns, mapped...)
		entries = append(entries, ingestlog.Entry{
			Timestamp: time.Now().UTC(),
			File:      f.Name,
			SHA256:    sum,
			Format:    mapper.Format(),
			Rows:      len(mapped),
			Skipped:   skipped,
		})
		log.Info().
			Str("file", f.Name).
			Str("format", mapper.Format()).
			Int("rows", len(mapped)).
			Int("skipped", skipped).
			Msg("ingested")
	}

	if len(entries) == 0 {
		log.Info().Msg("no new files")
		return nil
	}

	if backfill {
		txns = backfillBalances(txns, cfg, log)
	}

	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date.Before(txns[j].Date) })

	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := store.WriteFile(dataPath, txns); err != nil {
		return err
	}
	if err := ingestlog.Append(root, entries); err != nil {
		return err
	}

	log.Info().Int("total", len(txns)).Str("path", dataPath).Msg("wrote normalized transactions")
	return nil
}

func ingestFile(registry *importer.Registry, f importer.FileInfo) ([]model.Transaction, int, importer.Mapper, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer fh.Close()

	rows, columns, err := importer.ReadRows(fh)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%s: %w", f.Name, err)
	}

	mapper, err := selectMapper(registry, columns, f.Name)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%s: %w", f.Name, err)
	}

	txns, skipped, err := importer.MapAll(mapper, rows, f.Name)
	if err != nil {
		return nil, 0, nil, err
	}
	return txns, skipped, mapper, nil
}

// selectMapper matches the file's columns against registered required
// field sets. When more than one mapper qualifies, a format name in the
// filename acts as the explicit hint; otherwise the ambiguity is
// surfaced.
func selectMapper(registry *importer.Registry, columns []string, filename string) (importer.Mapper, error) {
	m, err := registry.Select(columns)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, importer.ErrAmbiguousSchema) {
		return nil, err
	}

	lower := strings.ToLower(filename)
	for _, format := range registry.Formats() {
		if strings.Contains(lower, strings.ToLower(format)) {
			return registry.Get(format), nil
		}
	}
	return nil, err
}

// backfillBalances derives per-transaction balances for accounts whose
// source reports none, anchored at the configured balance after the
// most recent transaction.
func backfillBalances(txns []model.Transaction, cfg *config.Config, log zerolog.Logger) []model.Transaction {
	byAccount := make(map[model.Account][]model.Transaction)
	var order []model.Account
	for _, txn := range txns {
		if _, ok := byAccount[txn.Account]; !ok {
			order = append(order, txn.Account)
		}
		byAccount[txn.Account] = append(byAccount[txn.Account], txn)
	}

	var out []model.Transaction
	for _, account := range order {
		accTxns := byAccount[account]
		if hasReportedBalance(accTxns) {
			out = append(out, accTxns...)
			continue
		}
		anchor, ok, err := cfg.Anchor(account)
		if err != nil || !ok {
			if err != nil {
				log.Warn().Err(err).Str("account", string(account)).Msg("invalid anchor, not backfilling")
			}
			out = append(out, accTxns...)
			continue
		}
		log.Info().Str("account", string(account)).Msg("backfilling running balances from anchor")
		out = append(out, enrich.AddRunningBalance(accTxns, anchor)...)
	}
	return out
}

func hasReportedBalance(txns []model.Transaction) bool {
	for _, txn := range txns {
		if txn.HasBalance {
			return true
		}
	}
	return false
}
