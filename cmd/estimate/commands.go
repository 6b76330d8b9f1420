package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/teeworks/internal/estimator"
)

// groupFlags are the calc flags that describe a group inline.
var groupFlags = []string{"quantity", "bring-in", "tshirt-cost", "silkscreen", "dtf", "setup", "options", "custom-items", "samples"}

// orderFile is the on-disk shape read by the summarize command.
type orderFile struct {
	Title  string            `yaml:"title"`
	Groups []estimator.Group `yaml:"groups"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "estimate",
		Short:         "Price apparel printing groups",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCalcCmd(), newSummarizeCmd())
	return root
}

func newCalcCmd() *cobra.Command {
	var (
		file  string
		group estimator.GroupCost
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute labor and sales unit prices of one group",
		Long: `Compute labor and sales unit prices of one processing group.

The group is read from --file (YAML or JSON) or from the individual flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				for _, name := range groupFlags {
					if cmd.Flags().Changed(name) {
						return fmt.Errorf("--file cannot be combined with --%s", name)
					}
				}
				if err := readYAML(file, &group); err != nil {
					return err
				}
			}
			if err := group.Validate(); err != nil {
				return err
			}

			prices := estimator.Price(group)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "labor unit price: %d\n", prices.LaborUnitPrice)
			fmt.Fprintf(out, "sales unit price: %d\n", prices.SalesUnitPrice)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "read the group from a YAML or JSON file")
	f.IntVar(&group.Quantity, "quantity", 0, "total items in the group")
	f.IntVar(&group.BringInQuantity, "bring-in", 0, "items supplied by the customer")
	f.Float64Var(&group.TshirtCost, "tshirt-cost", 0, "material cost of the group after discounts")
	f.Float64Var(&group.SilkscreenPrintCost, "silkscreen", 0, "silkscreen print cost")
	f.Float64Var(&group.DtfPrintCost, "dtf", 0, "DTF print cost")
	f.Float64Var(&group.SetupCost, "setup", 0, "setup cost")
	f.Float64Var(&group.AdditionalOptionsCost, "options", 0, "additional options cost")
	f.Float64Var(&group.CustomItemsCost, "custom-items", 0, "custom items cost")
	f.Float64Var(&group.SampleItemsCost, "samples", 0, "sample items cost")

	return cmd
}

func newSummarizeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Price every group of an order file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var order orderFile
			if err := readYAML(file, &order); err != nil {
				return err
			}
			if len(order.Groups) == 0 {
				return fmt.Errorf("%s: no groups", file)
			}
			for i, g := range order.Groups {
				if err := g.Validate(); err != nil {
					return fmt.Errorf("group %d: %w", i+1, err)
				}
			}

			summary := estimator.Summarize(order.Groups)

			out := cmd.OutOrStdout()
			if order.Title != "" {
				fmt.Fprintf(out, "%s\n\n", order.Title)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tSOLD\tBRING-IN\tLABOR\tSALES\tAMOUNT")
			for _, g := range summary.Groups {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
					g.Name, g.SalesQuantity, g.BringInQuantity, g.LaborUnitPrice, g.SalesUnitPrice, g.Amount)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nsubtotal: %d\n", summary.Subtotal)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "order file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readYAML(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
