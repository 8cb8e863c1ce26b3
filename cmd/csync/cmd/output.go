package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/soundline/catalog-sync/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printRunsTable(runs []domain.SyncRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tFILE\tSTATUS\tRECORDS\tCREATED\tUPDATED\tSKIPPED\tFAILED\tSTARTED\n")
	for i := range runs {
		r := &runs[i]
		tw.writef("%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.ID,
			truncate(r.FileName, 30),
			r.Status,
			r.Summary.RecordsTotal,
			r.Summary.Created,
			r.Summary.Updated,
			r.Summary.Skipped,
			r.Summary.Failed,
			r.StartedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func printRunDetail(r *domain.SyncRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", r.ID)
	tw.writef("File:\t%s\n", r.FileName)
	tw.writef("Status:\t%s\n", r.Status)
	if r.ErrorText != "" {
		tw.writef("Error:\t%s\n", r.ErrorText)
	}
	tw.writef("Records:\t%d\n", r.Summary.RecordsTotal)
	tw.writef("Created:\t%d\n", r.Summary.Created)
	tw.writef("Updated:\t%d\n", r.Summary.Updated)
	tw.writef("Skipped:\t%d\n", r.Summary.Skipped)
	tw.writef("Failed:\t%d\n", r.Summary.Failed)
	tw.writef("Started:\t%s\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	if r.CompletedAt != nil {
		tw.writef("Completed:\t%s\n", r.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	if r.Summary.CacheDegraded {
		tw.writef("Warning:\tmatched against a degraded catalog snapshot\n")
	}
	return tw.finish()
}

func printResultsTable(results []domain.StoredMatch) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ROW\tNAME\tMATCH\tCONF\tTIER\tACTION\tMATCHED\n")
	for i := range results {
		r := &results[i]
		matched := "-"
		if r.MatchedName != "" {
			matched = truncate(r.MatchedName, 35)
		}
		tw.writef("%d\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			r.SourceRow,
			truncate(r.RecordName, 35),
			r.MatchType,
			r.Confidence,
			r.Tier,
			r.Action,
			matched,
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
