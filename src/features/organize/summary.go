package organize

import (
	"fmt"
	"io"
	"sort"

	"chronotune/src/music"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary writes the run summary table to w.
func RenderSummary(w io.Writer, years []int, stats *RunStats) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Run summary")
	tw.AppendHeader(table.Row{"Bucket", "Files"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})

	sorted := append([]int(nil), years...)
	sort.Ints(sorted)
	for _, year := range sorted {
		tw.AppendRow(table.Row{year, stats.ByYear[year]})
	}
	tw.AppendRow(table.Row{"other years", stats.OtherYears})
	tw.AppendRow(table.Row{"unidentified", stats.Unknown})
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"moved", stats.Moved})
	tw.AppendRow(table.Row{"backed up", stats.BackedUp})
	tw.AppendRow(table.Row{"errors", stats.Errors})
	tw.Render()

	fmt.Fprintf(w, "Identification rate: %.1f%% (%d of %d files)\n",
		stats.IdentificationRate()*100, stats.Identified(), stats.Total)

	fmt.Fprintln(w, "Sources:")
	for _, source := range []music.Source{music.SourceCache, music.SourceMetadata, music.SourceSpotify, music.SourceFilename, music.SourceUnknown} {
		if count := stats.BySource[source]; count > 0 {
			fmt.Fprintf(w, "  %-15s %d\n", source, count)
		}
	}
}
