package main

import (
	"fmt"
	"os"

	"github.com/onecuponetree/onecup/internal/app/seed"
	donationstore "github.com/onecuponetree/onecup/internal/app/store/donations"
	farmerstore "github.com/onecuponetree/onecup/internal/app/store/farmers"
	impactstatstore "github.com/onecuponetree/onecup/internal/app/store/impactstats"
	orderstore "github.com/onecuponetree/onecup/internal/app/store/orders"
	testimonialstore "github.com/onecuponetree/onecup/internal/app/store/testimonials"
	trainingstore "github.com/onecuponetree/onecup/internal/app/store/training"
	treestore "github.com/onecuponetree/onecup/internal/app/store/trees"
	"github.com/onecuponetree/onecup/internal/app/system/indexes"
	"github.com/spf13/cobra"
)

var seedCheckOnly bool

var seedCmd = &cobra.Command{
	Use:   "seed [file.yaml]",
	Short: "Load farmers, trees, donations and the rest from a YAML file",
	Long: `Validates the file in full and then inserts it section by section.
Nothing is written when validation fails. Use --check to validate only.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedCheckOnly, "check", false, "validate without writing")
}

func runSeed(cmd *cobra.Command, args []string) error {
	fh, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer fh.Close()

	f, err := seed.Parse(fh)
	if err != nil {
		return err
	}
	if seedCheckOnly {
		if err := f.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	}

	ctx, cancel := opContext(cmd)
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, logger); err != nil {
		return err
	}

	loader := seed.NewLoader(seed.Writers{
		Farmers:      farmerstore.New(db),
		Trees:        treestore.New(db),
		Donations:    donationstore.New(db),
		Training:     trainingstore.New(db),
		Orders:       orderstore.New(db),
		Testimonials: testimonialstore.New(db),
		Overrides:    impactstatstore.New(db, logger),
	}, logger)

	sum, err := loader.Apply(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"farmers %d, stories %d, trees %d, donations %d, training %d, orders %d, testimonials %d, overrides %d\n",
		sum.Farmers, sum.Stories, sum.Trees, sum.Donations, sum.Training, sum.Orders, sum.Testimonials, sum.Overrides)
	return nil
}
