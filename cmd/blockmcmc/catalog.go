package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/inference"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [algorithm]",
	Short: "List the state and vertex-list types each sampler accepts",
	Long: `List the (state, vlist) type combinations each sampler is instantiated
for, in the order they are tried.

Examples:
  blockmcmc catalog          # all algorithms
  blockmcmc catalog gibbs    # one algorithm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	algorithms := []string{inference.AlgorithmMCMC, inference.AlgorithmGibbs, inference.AlgorithmMulticanonical}
	if len(args) == 1 {
		algorithms = args
	}
	out := cmd.OutOrStdout()
	for _, alg := range algorithms {
		sigs, err := inference.Signatures(alg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s:\n", alg)
		for _, sig := range sigs {
			fmt.Fprintf(out, "  %s\n", sig)
		}
	}
	return nil
}
