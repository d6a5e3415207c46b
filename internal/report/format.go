package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/anthropic/linecredit/internal/attribution"
	"github.com/anthropic/linecredit/internal/gitint"
	"github.com/anthropic/linecredit/internal/metrics"
)

// ANSI escape codes for terminal formatting.
const (
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	reset  = "\033[0m"
)

// maxFiles caps the per-file table in text reports.
const maxFiles = 20

// FormatRunReport formats a RunReport as a terminal-friendly string.
// Full-credit percentages are colored: >=70% green, 30-70% yellow, <30% red.
func FormatRunReport(r *RunReport) string {
	var b strings.Builder

	b.WriteString(bold + "Line Credit - Attribution Report" + reset + "\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	b.WriteString(fmt.Sprintf("Repository:  %s\n", r.RepoPath))
	b.WriteString(fmt.Sprintf("Commit:      %s\n", shortHash(r.CommitHash)))
	b.WriteString(fmt.Sprintf("Threshold:   %.2f\n", r.Threshold))
	if r.Since != "" {
		b.WriteString(fmt.Sprintf("Since:       %s\n", r.Since))
	}
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("Run:         %s\n", r.RunID))
	}
	b.WriteString(fmt.Sprintf("Files:       %s\n", humanize.Comma(int64(r.TotalFiles))))
	b.WriteString(fmt.Sprintf("Lines:       %s (%s skipped)\n",
		humanize.Comma(int64(r.TotalLines)), humanize.Comma(int64(r.Skipped))))
	b.WriteString(fmt.Sprintf("Full credit: %s%s%.1f%%%s\n\n",
		bold, colorForPct(r.FullCreditPct), r.FullCreditPct, reset))

	b.WriteString(formatAuthorTable(r.Authors))

	if len(r.Files) > 0 {
		b.WriteString("\n" + bold + "Files" + reset + "\n")
		b.WriteString(strings.Repeat("-", 72) + "\n")
		b.WriteString(fmt.Sprintf("%-35s %8s %8s %8s %9s\n", "File", "Lines", "Full%", "Skipped", "Top"))
		b.WriteString(strings.Repeat("-", 72) + "\n")

		n := len(r.Files)
		if n > maxFiles {
			n = maxFiles
		}
		for _, f := range r.Files[:n] {
			b.WriteString(fmt.Sprintf("%-35s %8s %s%7.1f%%%s %8d %9s\n",
				truncate(f.FilePath, 35), humanize.Comma(int64(f.TotalLines)),
				colorForPct(f.FullCreditPct), f.FullCreditPct, reset,
				f.Skipped, truncate(f.TopAuthor, 9)))
		}
		if len(r.Files) > maxFiles {
			b.WriteString(fmt.Sprintf("... and %d more files\n", len(r.Files)-maxFiles))
		}
	}

	return b.String()
}

// FormatStoredRun formats a run loaded from the store.
func FormatStoredRun(sr *StoredRun) string {
	var b strings.Builder

	b.WriteString(bold + "Line Credit - Saved Run" + reset + "\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	b.WriteString(fmt.Sprintf("Run:        %s\n", sr.Run.ID))
	b.WriteString(fmt.Sprintf("Repository: %s\n", sr.Run.RepoPath))
	b.WriteString(fmt.Sprintf("Commit:     %s\n", shortHash(sr.Run.CommitHash)))
	b.WriteString(fmt.Sprintf("Started:    %s\n\n", humanize.Time(sr.Run.StartedAt)))
	b.WriteString(formatAuthorTable(sr.Authors))
	return b.String()
}

func formatAuthorTable(authors []metrics.AuthorMetrics) string {
	var b strings.Builder
	b.WriteString(bold + "Authors" + reset + "\n")
	b.WriteString(strings.Repeat("-", 64) + "\n")
	b.WriteString(fmt.Sprintf("%-22s %8s %8s %8s %7s %7s\n", "Author", "Lines", "Full", "Partial", "Full%", "Share"))
	b.WriteString(strings.Repeat("-", 64) + "\n")
	for _, a := range authors {
		b.WriteString(fmt.Sprintf("%-22s %8s %8s %8s %s%6.1f%%%s %6.1f%%\n",
			truncate(a.Author, 22),
			humanize.Comma(int64(a.Lines)),
			humanize.Comma(int64(a.FullCredit)),
			humanize.Comma(int64(a.PartialCredit)),
			colorForPct(a.FullCreditPct), a.FullCreditPct, reset,
			a.SharePct))
	}
	if len(authors) == 0 {
		b.WriteString("(no lines attributed)\n")
	}
	return b.String()
}

// FormatFileLines renders every line of a file with its author and verdict,
// like an annotated blame. Partial-credit lines are marked with '~' and
// skipped lines with '?'.
func FormatFileLines(fr *attribution.FileResult) string {
	var b strings.Builder
	b.WriteString(bold + fr.Path + reset + " @ " + shortHash(fr.CommitHash) + "\n")

	width := len(fmt.Sprint(len(fr.Lines)))
	for _, l := range fr.Lines {
		mark := " "
		switch {
		case l.Skipped:
			mark = "?"
		case !l.FullCredit:
			mark = "~"
		}
		b.WriteString(fmt.Sprintf("%s %-16s %*d %s %s\n",
			shortHash(l.CommitHash), truncate(l.Author, 16), width, l.LineNumber, mark, l.Content))
	}
	return b.String()
}

// CacheSummary describes the query cache for display.
type CacheSummary struct {
	DBPath string
	DBSize int64
	Counts map[string]int64
	Stats  gitint.CacheStats
}

// FormatCacheSummary formats query cache statistics.
func FormatCacheSummary(c CacheSummary) string {
	var b strings.Builder

	b.WriteString(bold + "Line Credit - Query Cache" + reset + "\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	b.WriteString(fmt.Sprintf("%-20s %s\n", "Database:", c.DBPath))
	b.WriteString(fmt.Sprintf("%-20s %s\n", "DB Size:", humanize.Bytes(uint64(c.DBSize))))
	for _, row := range []struct{ label, kind string }{
		{"Parent entries:", gitint.KindParents},
		{"Diff entries:", gitint.KindDiff},
		{"Blame entries:", gitint.KindBlame},
	} {
		b.WriteString(fmt.Sprintf("%-20s %s\n", row.label, humanize.Comma(c.Counts[row.kind])))
	}
	if total := c.Stats.MemoryHits + c.Stats.DiskHits + c.Stats.Misses; total > 0 {
		b.WriteString(fmt.Sprintf("%-20s %s memory, %s disk, %s miss\n", "Lookups:",
			humanize.Comma(c.Stats.MemoryHits), humanize.Comma(c.Stats.DiskHits), humanize.Comma(c.Stats.Misses)))
	}
	return b.String()
}

// FormatJSON marshals any value as indented JSON.
func FormatJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}

// colorForPct returns an ANSI color code for a full-credit percentage.
func colorForPct(pct float64) string {
	switch {
	case pct >= 70:
		return green
	case pct >= 30:
		return yellow
	default:
		return red
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-(n-3):]
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
