package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	impactstatstore "github.com/onecuponetree/onecup/internal/app/store/impactstats"
	"github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statsIcon string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Manage impact metric overrides",
	Long: `An active override replaces the computed value of one headline metric
on the impact dashboard. Clearing it restores the computed value.

Metrics: ` + metricNames(),
}

var statsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored overrides",
	Args:  cobra.NoArgs,
	RunE:  runStatsList,
}

var statsSetCmd = &cobra.Command{
	Use:   "set [metric] [value]",
	Short: "Set an override",
	Long: `Sets and activates the override for a metric. The metric may be given
as its key or its label, for example:

  onecupctl stats set "Youth Trained" 120
  onecupctl stats set trees_planted 2500 --icon fa-tree`,
	Args: cobra.ExactArgs(2),
	RunE: runStatsSet,
}

var statsClearCmd = &cobra.Command{
	Use:   "clear [metric]",
	Short: "Deactivate an override",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatsClear,
}

func init() {
	statsSetCmd.Flags().StringVar(&statsIcon, "icon", "", "icon class shown on the card")
}

func runStatsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := opContext(cmd)
	defer cancel()

	rows, err := impactstatstore.New(db, logger).List(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no overrides")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE\tACTIVE\tUPDATED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%t\t%s\n", r.Metric, r.Value, r.IsActive, r.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runStatsSet(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("value %q is not a whole number", args[1])
	}

	ctx, cancel := opContext(cmd)
	defer cancel()

	st, err := impactstatstore.New(db, logger).Set(ctx, impactstatstore.SetInput{
		Metric: args[0],
		Value:  value,
		Icon:   statsIcon,
	})
	if err != nil {
		return overrideError(args[0], err)
	}
	logger.Info("override set", zap.String("metric", st.Metric), zap.Int64("value", st.Value))
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %d\n", st.Metric, st.Value)
	return nil
}

func runStatsClear(cmd *cobra.Command, args []string) error {
	ctx, cancel := opContext(cmd)
	defer cancel()

	if err := impactstatstore.New(db, logger).Clear(ctx, args[0]); err != nil {
		if errors.Is(err, impactstatstore.ErrNotFound) {
			return fmt.Errorf("no override stored for %q", args[0])
		}
		return overrideError(args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", args[0])
	return nil
}

// overrideError turns store validation failures into operator-facing text.
func overrideError(metric string, err error) error {
	if errors.Is(err, impactstatstore.ErrUnknownMetric) {
		return fmt.Errorf("%q is not a metric; use one of: %s", metric, metricNames())
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s fails %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return err
}

func metricNames() string {
	names := make([]string, len(impact.Metrics))
	for i, m := range impact.Metrics {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
