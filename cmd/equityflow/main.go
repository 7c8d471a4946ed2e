package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"equityflow/analysis"
	"equityflow/config"
	"equityflow/internal/repository"
	"equityflow/internal/tradecsv"
	"equityflow/num"
	"equityflow/types"
)

var (
	configPath string
	tradesPath string
)

var rootCmd = &cobra.Command{
	Use:   "equityflow",
	Short: "Compute cash flow and return series for a set of trades",
	Long: `equityflow loads bar history from the aggregates database, replays a
CSV of trades against it and writes the resulting per-bar series to a file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var cashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Compute the multiplicative cash flow index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd.Context(), "cash_flow", func(run *analysisRun) ([]num.Num, error) {
			cf, err := analysis.NewCashFlowUpTo(run.series, run.record, run.series.EndIndex())
			if err != nil {
				return nil, err
			}
			last := cf.Values()[cf.Size()-1]
			fmt.Printf("final cash flow: %s\n", last)
			fmt.Printf("max drawdown:    %s\n", analysis.MaxDrawdown(cf))
			return cf.Values(), nil
		})
	},
}

var returnsCmd = &cobra.Command{
	Use:   "returns",
	Short: "Compute the per-bar return series",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd.Context(), "return", func(run *analysisRun) ([]num.Num, error) {
			returnType, err := run.cfg.ReturnType()
			if err != nil {
				return nil, err
			}
			ret, err := analysis.NewReturnsUpTo(run.series, run.record, returnType, run.series.EndIndex())
			if err != nil {
				return nil, err
			}
			fmt.Printf("%s returns over %d bars\n", returnType, ret.Size())
			return ret.Values(), nil
		})
	},
}

// analysisRun holds the loaded inputs shared by the subcommands.
type analysisRun struct {
	cfg    *config.Config
	series *types.BarSeries
	record *types.TradingRecord
}

func runAnalysis(ctx context.Context, column string, compute func(*analysisRun) ([]num.Num, error)) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	bar := initProgressBar(5)
	defer bar.Finish()

	db, err := repository.NewDatabase(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	asset, err := db.GetAssetByTicker(ctx, cfg.Series.Ticker)
	if err != nil {
		return err
	}
	bar.Add(1)

	bars, err := db.GetBars(ctx, asset.Id, asset.Ticker, cfg.Interval(), cfg.Series.Start, cfg.Series.End)
	if err != nil {
		return err
	}
	series, err := types.NewBarSeries(asset.Ticker, cfg.NumContext(), bars)
	if err != nil {
		return err
	}
	bar.Add(1)

	txModel, err := cfg.Costs.TransactionModel()
	if err != nil {
		return err
	}
	holdModel, err := cfg.Costs.HoldingModel()
	if err != nil {
		return err
	}
	record, err := tradecsv.ReadTradesFile(tradesPath, cfg.NumContext(), txModel, holdModel)
	if err != nil {
		return err
	}
	bar.Add(1)

	run := &analysisRun{cfg: cfg, series: series, record: record}
	values, err := compute(run)
	if err != nil {
		return err
	}
	bar.Add(1)

	if err := tradecsv.WriteSeriesFile(cfg.Output.Path, series, column, values); err != nil {
		return err
	}
	bar.Add(1)
	fmt.Printf("wrote %d values to %s\n", len(values), cfg.Output.Path)
	return nil
}

func initProgressBar(steps int) *progressbar.ProgressBar {
	return progressbar.NewOptions(steps,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Analyzing trades..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "equityflow.yaml", "path to the run configuration")
	rootCmd.PersistentFlags().StringVarP(&tradesPath, "trades", "t", "trades.csv", "path to the trades CSV")
	rootCmd.AddCommand(cashflowCmd, returnsCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.SetFlags(0)
		log.Println(err)
		os.Exit(1)
	}
}
