package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/typeimage-go/typeimage"
)

var (
	membersQuery  string
	membersKind   string
	membersPublic bool
)

var membersCmd = &cobra.Command{
	Use:   "members <type>",
	Short: "List the members of a type image",
	Long: `List the members of a catalog type.

Use --query to choose between the members the type declares (local), one
member per name across the embedding chain (surface) or every member
(all). Use --kind to filter by member kind (field, property, indexer,
method, constructor).`,
	Args: cobra.ExactArgs(1),
	RunE: runMembers,
}

func init() {
	membersCmd.Flags().StringVarP(&membersQuery, "query", "q", "surface", "query mode (local, surface, all)")
	membersCmd.Flags().StringVarP(&membersKind, "kind", "k", "", "filter by member kind")
	membersCmd.Flags().BoolVarP(&membersPublic, "public", "p", false, "show exported members only")
}

func parseKind(s string) (typeimage.MemberKind, error) {
	for _, k := range []typeimage.MemberKind{
		typeimage.MemberKindField,
		typeimage.MemberKindProperty,
		typeimage.MemberKindIndexer,
		typeimage.MemberKindMethod,
		typeimage.MemberKindConstructor,
	} {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return typeimage.MemberKindUnknown, fmt.Errorf("unknown member kind: %s", s)
}

func runMembers(cmd *cobra.Command, args []string) error {
	ti, err := resolveType(args[0])
	if err != nil {
		return err
	}
	q, err := typeimage.ParseQuery(membersQuery)
	if err != nil {
		return err
	}

	kindFilter := typeimage.MemberKindUnknown
	if membersKind != "" {
		if kindFilter, err = parseKind(membersKind); err != nil {
			return err
		}
	}

	var reports []memberReport
	for m := range ti.Members(q) {
		if kindFilter != typeimage.MemberKindUnknown && m.Kind() != kindFilter {
			continue
		}
		if membersPublic && !m.IsPublic() {
			continue
		}
		reports = append(reports, describeMember(m))
	}

	return emit(reports, func() {
		fmt.Fprintf(output, "%s (%s)\n\n", ti.Name(), q)
		printMembers(reports)
		fmt.Fprintf(output, "\nTotal: %d members\n", len(reports))
	})
}
