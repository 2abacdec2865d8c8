package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/config"
	"github.com/finsight-dev/finsight/internal/goal"
)

func newReportCommand() *cobra.Command {
	var income float64
	var savingsGoal float64

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize stored transactions against benchmarks and goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("income") {
				cfg.Profile.MonthlyIncome = income
			}
			if cmd.Flags().Changed("goal") {
				cfg.Profile.SavingsGoal = savingsGoal
			}
			return runReport(cmd.Context(), cfg)
		},
	}

	cmd.Flags().Float64Var(&income, "income", 0, "declared monthly income (overrides config)")
	cmd.Flags().Float64Var(&savingsGoal, "goal", 0, "savings goal (overrides config)")

	return cmd
}

func runReport(ctx context.Context, cfg *config.Config) error {
	txnStore, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	txns, err := txnStore.ReadAll(ctx)
	if err != nil {
		return err
	}

	benchmarks, err := loadBenchmarks(cfg)
	if err != nil {
		return err
	}

	income := decimal.NewFromFloat(cfg.Profile.MonthlyIncome)
	result, err := aggregate.Aggregate(txns, income, benchmarks)
	if errors.Is(err, aggregate.ErrNoData) {
		fmt.Println("No transactions stored yet.")
		return nil
	}
	if err != nil {
		return err
	}

	progress := goal.Track(result, decimal.NewFromFloat(cfg.Profile.SavingsGoal))
	printReport(result, progress)
	return nil
}

func printReport(result *aggregate.Result, progress goal.Progress) {
	fmt.Printf("Months analyzed: %d (%s to %s)\n",
		result.MonthsObserved, result.Months[0], result.Months[len(result.Months)-1])
	fmt.Printf("Total income:    %s\n", result.TotalIncome.StringFixed(2))
	fmt.Printf("Total spending:  %s\n", result.TotalExpense.StringFixed(2))
	fmt.Printf("Net savings:     %s\n", result.NetSavings.StringFixed(2))
	fmt.Printf("Bracket:         %s\n\n", result.Bracket.Name)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTOTAL\tMONTHLY AVG\t% OF SPEND")
	for _, c := range result.Categories {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s%%\n",
			c.Category, c.Total.StringFixed(2), c.MonthlyAvg.StringFixed(2), c.Percent.StringFixed(1))
	}
	w.Flush()

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tYOU\tBENCHMARK\tDELTA")
	for _, d := range result.Deltas {
		fmt.Fprintf(w, "%s\t%s%%\t%s%%\t%s%%\n",
			d.Category, d.User.StringFixed(1), d.Target.StringFixed(1), d.Delta.StringFixed(1))
	}
	w.Flush()

	fmt.Println()
	pct := progress.Fraction.Mul(decimal.NewFromInt(100))
	fmt.Printf("Savings goal: %s, saved so far: %s (%s%%)\n",
		progress.Goal.StringFixed(2), progress.NetSavings.StringFixed(2), pct.StringFixed(0))
	for _, t := range progress.Targets {
		flag := "under"
		if t.Over {
			flag = "OVER"
		}
		fmt.Printf("  %-15s you %s/mo, target %s/mo (%s by %s)\n",
			t.Category, t.MonthlyAvg.StringFixed(2), t.Target.StringFixed(2), flag, t.Delta.Abs().StringFixed(2))
	}
}
