package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/typeimage-go/typeimage"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the types in the catalog",
	Long: `List the catalog types with the number of members their images
expose under the surface query.`,
	Args: cobra.NoArgs,
	RunE: runTypes,
}

type typeSummary struct {
	Name         string `yaml:"name"`
	Kind         string `yaml:"kind"`
	Base         string `yaml:"base,omitempty"`
	Fields       int    `yaml:"fields"`
	Properties   int    `yaml:"properties"`
	Indexers     int    `yaml:"indexers"`
	Methods      int    `yaml:"methods"`
	Constructors int    `yaml:"constructors"`
}

func summarize(name string, ti *typeimage.TypeImage) typeSummary {
	s := typeSummary{
		Name:         name,
		Kind:         ti.Type().Kind().String(),
		Fields:       len(ti.Fields(typeimage.QuerySurface)),
		Properties:   len(ti.Properties(typeimage.QuerySurface)),
		Indexers:     len(ti.Indexers(typeimage.QuerySurface)),
		Methods:      len(ti.Methods(typeimage.QuerySurface)),
		Constructors: len(ti.Constructors()),
	}
	if b := ti.Base(); b != nil {
		s.Base = b.Name()
	}
	return s
}

func runTypes(cmd *cobra.Command, args []string) error {
	var summaries []typeSummary
	for _, name := range catalogNames() {
		ti, err := resolveType(name)
		if err != nil {
			return err
		}
		summaries = append(summaries, summarize(name, ti))
	}

	return emit(summaries, func() {
		header("%-18s %-10s %6s %6s %6s %6s %6s", "NAME", "KIND", "FIELD", "PROP", "INDEX", "METHOD", "CTOR")
		for _, s := range summaries {
			fmt.Fprintf(output, "%-18s %-10s %6d %6d %6d %6d %6d\n",
				s.Name, s.Kind, s.Fields, s.Properties, s.Indexers, s.Methods, s.Constructors)
		}
		fmt.Fprintf(output, "\nTotal: %d types\n", len(summaries))
	})
}
