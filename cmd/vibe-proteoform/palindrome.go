package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-proteoform/internal/decoy"
)

func newPalindromeCmd() *cobra.Command {
	var minDegree, cutoff int

	cmd := &cobra.Command{
		Use:   "palindrome <sequence>...",
		Short: "Report whether sequences read the same reversed",
		Long: `Report the palindromic degree of each sequence: the number of mirrored
residue pairs that match counting from the ends inward. A sequence is
palindromic when its degree reaches --min-degree and either every pair
matched or --cutoff matching pairs were found.`,
		Example: `  vibe-proteoform palindrome PEPEP MPEPTIDE
  vibe-proteoform palindrome --cutoff 3 ABCXDCBA`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "#sequence\tpalindromic\tdegree")
			for _, seq := range args {
				ok, degree := decoy.IsPalindromic(seq, minDegree, cutoff)
				fmt.Fprintf(out, "%s\t%t\t%d\n", seq, ok, degree)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&minDegree, "min-degree", 1, "Minimum number of matching pairs")
	cmd.Flags().IntVar(&cutoff, "cutoff", 0, "Matching pairs that suffice, skipping mismatches (0 = none)")

	return cmd
}
