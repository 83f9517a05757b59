// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/kspace/model"
	"github.com/katalvlaran/kspace/nonabelian"
)

func newQuantitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "quantities",
		Aliases: []string{"ls"},
		Short:   "List quantities, presets and model presets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listAll(cmd.OutOrStdout())
		},
	}
}

// listAll renders the quantity, preset and model tables to w.
func listAll(w io.Writer) error {
	var quantities [][]string
	for _, q := range nonabelian.Quantities() {
		quantities = append(quantities, []string{
			q.String(), strconv.Itoa(q.Rank()), strconv.FormatBool(q.TROdd()), strconv.FormatBool(q.InvOdd()),
		})
	}

	var presets [][]string
	for _, name := range nonabelian.Presets() {
		p, _ := nonabelian.LookupPreset(name)
		qs := make([]string, len(p.Quantities))
		for i, q := range p.Quantities {
			qs[i] = q.String()
		}
		presets = append(presets, []string{p.Name, strings.Join(qs, ","), string(p.Mode), fmt.Sprintf("%g", p.Factor)})
	}

	var models [][]string
	for _, name := range model.PresetNames() {
		h, err := model.NewPreset(name, 1)
		if err != nil {
			return err
		}
		models = append(models, []string{name, strconv.Itoa(h.Dim())})
	}

	tables := []struct {
		header []string
		rows   [][]string
	}{
		{[]string{"Quantity", "Rank", "TR-odd", "I-odd"}, quantities},
		{[]string{"Preset", "Quantities", "Mode", "Factor"}, presets},
		{[]string{"Model", "Bands"}, models},
	}
	for i, tb := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		table := tablewriter.NewWriter(w)
		table.Header(tb.header)
		for _, row := range tb.rows {
			if err := table.Append(row); err != nil {
				return errors.Wrap(err, "list")
			}
		}
		if err := table.Render(); err != nil {
			return errors.Wrap(err, "list")
		}
	}

	return nil
}

func join(names []string) string { return strings.Join(names, ", ") }
