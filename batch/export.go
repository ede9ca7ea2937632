package batch

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"mediaopt/command"
	"mediaopt/internal/units"
)

const scriptBanner = "mediaopt - batch encode"

// BashScript renders a POSIX shell script that runs every entry's encode
// command and reports success or failure from its exit status.
func (c *Coordinator) BashScript() string {
	entries := c.Entries()
	q := command.QuoteShell
	var b strings.Builder

	b.WriteString("#!/bin/bash\n")
	c.writeHeader(&b, entries)

	fmt.Fprintf(&b, "echo %s\n", q.Quote(scriptBanner))
	fmt.Fprintf(&b, "echo %s\n", q.Quote(strings.Repeat("=", len(scriptBanner))))
	fmt.Fprintf(&b, "echo %s\n", q.Quote(fmt.Sprintf("Files to process: %d", len(entries))))
	b.WriteString("echo \"\"\n\n")

	for i, e := range entries {
		name := e.Name()
		fmt.Fprintf(&b, "# File %d/%d: %s\n", i+1, len(entries), singleLine(name))
		if e.Failed() {
			fmt.Fprintf(&b, "# Skipped: %s\n", singleLine(e.Err.Error()))
			fmt.Fprintf(&b, "echo %s\n\n", q.Quote(name+" - skipped (analysis failed)"))
			continue
		}
		fmt.Fprintf(&b, "echo %s\n", q.Quote("Processing: "+name))
		b.WriteString(e.Engine.GenerateCommand().Render(q) + "\n")
		b.WriteString("if [ $? -eq 0 ]; then\n")
		fmt.Fprintf(&b, "    echo %s\n", q.Quote(name+" - done"))
		b.WriteString("else\n")
		fmt.Fprintf(&b, "    echo %s\n", q.Quote(name+" - failed"))
		b.WriteString("fi\n")
		b.WriteString("echo \"\"\n\n")
	}

	fmt.Fprintf(&b, "echo %s\n", q.Quote("Batch encode finished"))
	return b.String()
}

// PowerShellScript renders the PowerShell equivalent of BashScript.
func (c *Coordinator) PowerShellScript() string {
	entries := c.Entries()
	q := command.QuotePowerShell
	var b strings.Builder

	c.writeHeader(&b, entries)

	fmt.Fprintf(&b, "Write-Host %s -ForegroundColor Cyan\n", q.Quote(scriptBanner))
	fmt.Fprintf(&b, "Write-Host %s -ForegroundColor Cyan\n", q.Quote(strings.Repeat("=", len(scriptBanner))))
	fmt.Fprintf(&b, "Write-Host %s -ForegroundColor White\n", q.Quote(fmt.Sprintf("Files to process: %d", len(entries))))
	b.WriteString("Write-Host \"\"\n\n")

	for i, e := range entries {
		name := e.Name()
		fmt.Fprintf(&b, "# File %d/%d: %s\n", i+1, len(entries), singleLine(name))
		if e.Failed() {
			fmt.Fprintf(&b, "# Skipped: %s\n", singleLine(e.Err.Error()))
			fmt.Fprintf(&b, "Write-Host %s -ForegroundColor DarkYellow\n\n", q.Quote(name+" - skipped (analysis failed)"))
			continue
		}
		fmt.Fprintf(&b, "Write-Host %s -ForegroundColor Yellow\n", q.Quote("Processing: "+name))
		b.WriteString("& " + e.Engine.GenerateCommand().Render(q) + "\n")
		b.WriteString("if ($LASTEXITCODE -eq 0) {\n")
		fmt.Fprintf(&b, "    Write-Host %s -ForegroundColor Green\n", q.Quote(name+" - done"))
		b.WriteString("} else {\n")
		fmt.Fprintf(&b, "    Write-Host %s -ForegroundColor Red\n", q.Quote(name+" - failed"))
		b.WriteString("}\n")
		b.WriteString("Write-Host \"\"\n\n")
	}

	fmt.Fprintf(&b, "Write-Host %s -ForegroundColor Green\n", q.Quote("Batch encode finished"))
	return b.String()
}

func (c *Coordinator) writeHeader(b *strings.Builder, entries []Entry) {
	stats, _ := aggregate(entries)
	b.WriteString("# Generated by mediaopt\n")
	fmt.Fprintf(b, "# Date: %s\n", c.opts.Now().Format("2006-01-02"))
	fmt.Fprintf(b, "# Profile: %s\n", c.Selector().ID)
	fmt.Fprintf(b, "# Estimated savings: %s\n\n", units.FormatSize(stats.TotalSaved))
}

// CSVHeader is the header row of CSVReport.
var CSVHeader = []string{
	"File", "Original Size (MB)", "Video Codec", "Resolution",
	"Optimized Size (MB)", "Saved (MB)", "Saved (%)",
}

// CSVReport renders one row per analyzed entry followed by a TOTAL row.
// Sizes are in MiB with two decimals. Failed entries are left out.
func (c *Coordinator) CSVReport() (string, error) {
	entries := c.Entries()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		if e.Failed() {
			continue
		}
		row := []string{
			e.Name(),
			units.Megabytes(e.Estimate.Original),
			e.Metadata.Video.CodecName,
			e.Metadata.Video.Resolution,
			units.Megabytes(e.Estimate.Optimized),
			units.Megabytes(e.Estimate.Saved),
			strconv.Itoa(e.Estimate.Percentage),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row for %s: %w", e.Name(), err)
		}
	}

	stats, _ := aggregate(entries)
	total := []string{
		"TOTAL",
		units.Megabytes(stats.TotalOriginal),
		"-", "-",
		units.Megabytes(stats.TotalOptimized),
		units.Megabytes(stats.TotalSaved),
		strconv.Itoa(stats.Percentage),
	}
	if err := w.Write(total); err != nil {
		return "", fmt.Errorf("failed to write CSV totals: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV report: %w", err)
	}
	return buf.String(), nil
}

// singleLine collapses every run of whitespace, line breaks included, to
// one space so the text is safe inside a script comment.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
