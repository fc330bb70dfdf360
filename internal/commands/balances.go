package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/balance"
	"github.com/bankfeed-dev/bankfeed/internal/config"
	"github.com/bankfeed-dev/bankfeed/internal/enrich"
	"github.com/bankfeed-dev/bankfeed/internal/logger"
	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/store"
)

func newBalancesCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "balances [directory]",
		Short: "Compute end-of-day balances per account and in total",
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

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}
			return runBalances(root, cfg, out, logger.New())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the combined series to a file instead of stdout")
	return cmd
}

func runBalances(root string, cfg *config.Config, out io.Writer, log zerolog.Logger) error {
	txns, err := store.ReadFile(filepath.Join(root, cfg.DataDir, transactionsFile))
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return fmt.Errorf("no normalized transactions; run ingest first")
	}

	if cfg.TargetCurrency != "" {
		target, err := model.ParseCurrency(cfg.TargetCurrency)
		if err != nil {
			return fmt.Errorf("target_currency: %w", err)
		}
		rates, err := cfg.ParsedRates()
		if err != nil {
			return err
		}
		txns, err = enrich.Convert(txns, target, rates)
		if err != nil {
			return err
		}
	}

	byAccount := make(map[model.Account][]model.Transaction)
	for _, txn := range txns {
		byAccount[txn.Account] = append(byAccount[txn.Account], txn)
	}
	accounts := make([]model.Account, 0, len(byAccount))
	for account := range byAccount {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	var series []*balance.Series
	for _, account := range accounts {
		s, err := accountSeries(account, byAccount[account], cfg)
		if err != nil {
			return err
		}
		if r, ok := s.Range(); ok {
			log.Info().
				Str("account", string(account)).
				Str("from", r.From.String()).
				Str("to", r.To.String()).
				Msg("computed end-of-day balances")
		}
		series = append(series, s)
	}

	total := balance.SumBalances(series...)
	return writeSeries(out, total)
}

// accountSeries derives one account's end-of-day balance series: direct
// extraction when the source reports a running balance, reconstruction
// from the configured anchor when it does not.
func accountSeries(account model.Account, txns []model.Transaction, cfg *config.Config) (*balance.Series, error) {
	if hasReportedBalance(txns) {
		return balance.EODFromReported(txns), nil
	}

	anchor, ok, err := cfg.Anchor(account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("account %s reports no balance and has no anchor_balance configured", account)
	}
	return balance.EODFromAnchor(txns, anchor)
}

func writeSeries(w io.Writer, s *balance.Series) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"date", "eod_balance"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, pt := range s.Points() {
		if err := cw.Write([]string{pt.Day.String(), pt.Value.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing row for %s: %w", pt.Day, err)
		}
	}
	return cw.Error()
}
