package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/budget"
	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/currency"
	"github.com/dvloznov/finance-dashboard/internal/gcs"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/recurring"
	"github.com/dvloznov/finance-dashboard/internal/store/inmemory"
	"github.com/dvloznov/finance-dashboard/internal/valuation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	switch os.Args[1] {
	case "budgets":
		runBudgets(log)
	case "networth":
		runNetWorth(log, cfg)
	case "convert":
		runConvert(log, cfg)
	case "currencies":
		runCurrencies(log, cfg)
	case "recurring":
		runRecurring(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finance Dashboard CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  budgets      Show budget usage for the current month")
	fmt.Println("  networth     Show net worth and portfolio value")
	fmt.Println("  convert      Convert a USD amount to another currency")
	fmt.Println("  currencies   List supported currencies and rates")
	fmt.Println("  recurring    Materialize due recurring records and list them")
	fmt.Println("  help         Show this help message")
	fmt.Println("\nCommands run over the demo data set.")
	fmt.Println("Run 'cli <command> -h' for more information on a command.")
}

// dateFlag registers -date and returns a func resolving it to a time.
func dateFlag(fs *flag.FlagSet) func() (time.Time, error) {
	date := fs.String("date", "", "Evaluate as of this date (YYYY-MM-DD, default today)")
	return func() (time.Time, error) {
		if *date == "" {
			return time.Now(), nil
		}
		return time.Parse(time.DateOnly, *date)
	}
}

func demoStore(ctx context.Context, now time.Time) (*inmemory.Store, error) {
	store := inmemory.NewStore()
	if err := store.Seed(ctx, inmemory.Demo(now)); err != nil {
		return nil, err
	}
	return store, nil
}

func loadConverter(ctx context.Context, uri string) (*currency.Converter, error) {
	return currency.LoadConverter(ctx, gcs.NewReader(), uri)
}

func runBudgets(log zerolog.Logger) {
	fs := flag.NewFlagSet("budgets", flag.ExitOnError)
	asOf := dateFlag(fs)
	fs.Parse(os.Args[2:])

	now, err := asOf()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -date")
	}
	snap := inmemory.Demo(now)
	analyses, err := budget.Analyze(snap.Budgets, snap.Transactions, now)
	if err != nil {
		log.Fatal().Err(err).Msg("Budget analysis failed")
	}
	log.Debug().Int("budgets", len(analyses)).Msg("Budgets analyzed")

	fmt.Printf("Budgets for %s\n\n", now.Format("January 2006"))
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CATEGORY\tSPENT\tLIMIT\tUSED %\tREMAINING\tSTATUS\t")
	for _, a := range analyses {
		status := "ok"
		if a.IsOver {
			status = "OVER"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			a.Category, a.Spent.StringFixed(2), a.Limit.StringFixed(2),
			a.Percentage.StringFixed(1), a.Remaining.StringFixed(2), status)
	}
	tw.Flush()

	if over := budget.Overspend(analyses); over.IsPositive() {
		fmt.Printf("\nTotal overspend: %s\n", over.StringFixed(2))
	}
}

func runNetWorth(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("networth", flag.ExitOnError)
	code := fs.String("currency", currency.Base, "Display currency code")
	baseline := fs.String("baseline", cfg.NetWorthFallbackBaseline.String(), "Net worth baseline used when no accounts or holdings exist")
	noHoldings := fs.Bool("no-holdings", false, "Ignore demo holdings to show the fallback estimate")
	asOf := dateFlag(fs)
	fs.Parse(os.Args[2:])

	now, err := asOf()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -date")
	}
	base, err := decimal.NewFromString(*baseline)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -baseline")
	}

	ctx := logger.WithContext(context.Background(), log)
	converter, err := loadConverter(ctx, cfg.CurrencyTableURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load currency table")
	}
	meta, err := converter.Meta(*code)
	if err != nil {
		log.Fatal().Err(err).Msg("Unsupported currency")
	}

	snap := inmemory.Demo(now)
	if *noHoldings {
		snap.Investments = nil
	}
	income, expense, err := valuation.CashTotals(snap.Transactions)
	if err != nil {
		log.Fatal().Err(err).Msg("Cash totals failed")
	}
	val, err := valuation.NewCalculator(base).Compute(snap.Accounts, snap.Investments, income, expense)
	if err != nil {
		log.Fatal().Err(err).Msg("Valuation failed")
	}

	show := func(usd decimal.Decimal) string {
		v, err := converter.Convert(usd, meta.Code)
		if err != nil {
			log.Fatal().Err(err).Msg("Conversion failed")
		}
		return currency.Format(v, meta)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Income\t%s\n", show(income))
	fmt.Fprintf(tw, "Expenses\t%s\n", show(expense))
	fmt.Fprintf(tw, "Assets\t%s\n", show(val.AssetTotal))
	fmt.Fprintf(tw, "Liabilities\t%s\n", show(val.LiabilityTotal))
	fmt.Fprintf(tw, "Portfolio\t%s\n", show(val.PortfolioValue))
	fmt.Fprintf(tw, "Net worth\t%s\n", show(val.NetWorth))
	tw.Flush()

	if !val.HasConnectedData {
		fmt.Printf("\nNo accounts or holdings: net worth estimated from a %s baseline.\n", show(base))
	}
}

func runConvert(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	amount := fs.String("amount", "", "Amount in USD")
	to := fs.String("to", "", "Target currency code")
	fs.Parse(os.Args[2:])

	if *amount == "" || *to == "" {
		log.Fatal().Msg("Usage: cli convert -amount 100 -to EUR")
	}
	usd, err := decimal.NewFromString(*amount)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -amount")
	}

	ctx := logger.WithContext(context.Background(), log)
	converter, err := loadConverter(ctx, cfg.CurrencyTableURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load currency table")
	}
	meta, err := converter.Meta(*to)
	if err != nil {
		log.Fatal().Err(err).Msg("Unsupported currency")
	}
	converted, err := converter.Convert(usd, meta.Code)
	if err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}

	usdMeta, _ := converter.Meta(currency.Base)
	fmt.Printf("%s = %s\n", currency.Format(usd, usdMeta), currency.Format(converted, meta))
}

func runCurrencies(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("currencies", flag.ExitOnError)
	table := fs.String("table", cfg.CurrencyTableURI, "Currency table path or gs:// URI (default built-in)")
	export := fs.String("export", "", "Write the loaded table to this path or gs:// URI")
	fs.Parse(os.Args[2:])

	ctx := logger.WithContext(context.Background(), log)
	converter, err := loadConverter(ctx, *table)
	if err != nil {
		log.Fatal().Err(err).Str("uri", *table).Msg("Failed to load currency table")
	}

	if *export != "" {
		if err := currency.SaveTable(ctx, gcs.NewReader(), *export, converter); err != nil {
			log.Fatal().Err(err).Str("uri", *export).Msg("Failed to export currency table")
		}
		fmt.Printf("Exported %d currencies to %s\n", len(converter.Codes()), *export)
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tSYMBOL\tNAME\tPER USD")
	for _, code := range converter.Codes() {
		meta, _ := converter.Meta(code)
		rate, _ := converter.Rate(code)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", meta.Code, meta.Symbol, meta.Label, rate.String())
	}
	tw.Flush()
}

func runRecurring(log zerolog.Logger) {
	fs := flag.NewFlagSet("recurring", flag.ExitOnError)
	asOf := dateFlag(fs)
	fs.Parse(os.Args[2:])

	now, err := asOf()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -date")
	}
	ctx := logger.WithContext(context.Background(), log)

	// Seed as of a month earlier so there is something due.
	store, err := demoStore(ctx, now.AddDate(0, -1, 0))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo data")
	}

	scheduler, err := recurring.NewScheduler(store, recurring.DefaultSchedule, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	res, err := scheduler.RunOnce(ctx, now)
	if err != nil {
		log.Fatal().Err(err).Msg("Materialization failed")
	}

	fmt.Printf("Added %d recurring transactions and %d plan installments through %s\n\n",
		res.Transactions, res.Installments, now.Format(time.DateOnly))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tID\tDESCRIPTION\tAMOUNT")
	for _, tx := range store.Transactions(ctx) {
		// Generated records carry an "@date" suffix.
		if !strings.Contains(tx.ID, "@") {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tx.Date, tx.ID, tx.Description, tx.Amount.StringFixed(2))
	}
	tw.Flush()
}
