package main

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"github.com/skdltmxn/typeimage-go/typeimage"
)

var checkIndex int

var checkCmd = &cobra.Command{
	Use:   "check [type...]",
	Short: "Exercise the getters of type images",
	Long: `Create an instance of each type with its zero-argument constructor
and read every field, property and single int indexer of the surface
through the image. Faults are reported by kind.

Getters run as written and may change the instance. Getters that can
fail, returning a value and an error, are listed as unread instead of
being called.

With no arguments every catalog type is checked.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVarP(&checkIndex, "index", "i", 0, "index used to probe int indexers")
}

type faultReport struct {
	Member string `yaml:"member"`
	Kind   string `yaml:"kind"`
	Error  string `yaml:"error"`
}

type checkReport struct {
	Type    string        `yaml:"type"`
	Checked int           `yaml:"checked"`
	Skipped int           `yaml:"skipped"`
	Unread  []string      `yaml:"unread,omitempty"`
	Faults  []faultReport `yaml:"faults,omitempty"`
}

func (r *checkReport) record(m typeimage.Member, err error) {
	r.Checked++
	if err != nil {
		r.Faults = append(r.Faults, faultReport{
			Member: m.Name(),
			Kind:   typeimage.KindOf(err).String(),
			Error:  err.Error(),
		})
	}
}

// newInstance returns an instance for the instance members of ti, or nil
// if ti has no zero-argument constructor or is an interface.
func newInstance(ti *typeimage.TypeImage) (any, error) {
	if ti.Type().Kind() == reflect.Interface {
		return nil, nil
	}
	ctor := ti.Constructor()
	if ctor == nil {
		return nil, nil
	}
	return ctor.Call()
}

func checkImage(ti *typeimage.TypeImage) checkReport {
	r := checkReport{Type: ti.Name()}
	inst, err := newInstance(ti)
	if err != nil {
		r.Faults = append(r.Faults, faultReport{
			Member: "constructor",
			Kind:   typeimage.KindOf(err).String(),
			Error:  err.Error(),
		})
	}

	instanceFor := func(m typeimage.Member) (any, bool) {
		if !m.RequiresInstance() {
			return nil, true
		}
		return inst, inst != nil
	}

	for _, f := range ti.Fields(typeimage.QuerySurface) {
		in, ok := instanceFor(f)
		if !ok {
			r.Skipped++
			continue
		}
		_, err := f.Get(in)
		r.record(f, err)
	}
	for _, p := range ti.Properties(typeimage.QuerySurface) {
		in, ok := instanceFor(p)
		if !ok {
			r.Skipped++
			continue
		}
		if p.ReturnsError() {
			r.Skipped++
			r.Unread = append(r.Unread, p.Name())
			continue
		}
		_, err := p.Get(in)
		r.record(p, err)
	}
	for _, ix := range ti.Indexers(typeimage.QuerySurface) {
		in, ok := instanceFor(ix)
		if !ok || !slices.Equal(ix.IndexTypes(), []reflect.Type{reflect.TypeFor[int]()}) {
			r.Skipped++
			continue
		}
		_, err := ix.Get(in, checkIndex)
		r.record(ix, err)
	}
	return r
}

func runCheck(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = catalogNames()
	}

	var reports []checkReport
	byKind := make(map[string]int)
	for _, name := range names {
		ti, err := resolveType(name)
		if err != nil {
			return err
		}
		r := checkImage(ti)
		for _, f := range r.Faults {
			byKind[f.Kind]++
		}
		reports = append(reports, r)
	}

	return emit(reports, func() {
		header("%-18s %8s %8s %8s", "TYPE", "CHECKED", "SKIPPED", "FAULTS")
		for _, r := range reports {
			fmt.Fprintf(output, "%-18s %8d %8d %8d\n", r.Type, r.Checked, r.Skipped, len(r.Faults))
		}
		for _, r := range reports {
			for _, f := range r.Faults {
				fmt.Fprintf(output, "  %s: %s\n", r.Type, f.Error)
			}
		}

		kinds := maps.Keys(byKind)
		slices.Sort(kinds)
		fmt.Fprintln(output)
		for _, k := range kinds {
			fmt.Fprintf(output, "%s: %d\n", k, byKind[k])
		}
		fmt.Fprintf(output, "Total: %d types\n", len(reports))
	})
}
