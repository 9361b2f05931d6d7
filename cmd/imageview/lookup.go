package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/skdltmxn/typeimage-go/typeimage"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <type> <member>",
	Short: "Look up members by name",
	Long: `Look up every member of a catalog type with the given name, across
the whole embedding chain.

The name may be short (Now) or qualified (time.Now). Rejected members,
such as methods with unsupported results, are reported as well.`,
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

type lookupResult struct {
	Type     string         `yaml:"type"`
	Query    string         `yaml:"query"`
	Members  []memberReport `yaml:"members"`
	Rejected []string       `yaml:"rejected,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	ti, err := resolveType(args[0])
	if err != nil {
		return err
	}
	name := args[1]

	res := lookupResult{Type: ti.Name(), Query: name}
	for m := range ti.Members(typeimage.QueryAll) {
		if m.Name() == name || m.ShortName() == name {
			res.Members = append(res.Members, describeMember(m))
		}
	}
	for _, err := range multierr.Errors(ti.Rejected()) {
		res.Rejected = append(res.Rejected, err.Error())
	}

	return emit(res, func() {
		if len(res.Members) == 0 {
			fmt.Fprintf(output, "No members found matching '%s'\n", name)
		} else {
			for _, r := range res.Members {
				printMemberDetail(r)
			}
			fmt.Fprintf(output, "Found %d member(s)\n", len(res.Members))
		}
		if len(res.Rejected) > 0 {
			fmt.Fprintf(output, "\nRejected:\n")
			for _, r := range res.Rejected {
				fmt.Fprintf(output, "  %s\n", r)
			}
		}
	})
}

func printMemberDetail(r memberReport) {
	fmt.Fprintf(output, "Member:\n")
	fmt.Fprintf(output, "  Name: %s\n", r.signature())
	fmt.Fprintf(output, "  Kind: %s\n", r.Kind)
	if r.Type != "" {
		fmt.Fprintf(output, "  Type: %s\n", r.Type)
	}
	fmt.Fprintf(output, "  Declaring: %s\n", r.Declaring)
	fmt.Fprintf(output, "  Static: %v\n", r.Static)
	fmt.Fprintf(output, "  Public: %v\n", r.Public)
	switch r.Kind {
	case "field", "property", "indexer":
		fmt.Fprintf(output, "  Settable: %v\n", r.Settable)
	}
	fmt.Fprintln(output)
}
