// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/ats-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobDescription outputs a human-readable summary of the analyzed JD.
func (p *Printer) PrintJobDescription(jd *types.JobDescription) {
	if jd == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Role:       %s\n", jd.Role))
	sb.WriteString(fmt.Sprintf("Seniority:  %s\n", jd.Seniority))
	sb.WriteString("\n")

	if len(jd.Keywords.Required) > 0 {
		sb.WriteString("Required Skills:\n")
		count := min(len(jd.Keywords.Required), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", jd.Keywords.Required[i]))
		}
		if len(jd.Keywords.Required) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(jd.Keywords.Required)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(jd.Keywords.Tools) > 0 {
		sb.WriteString("Tools:\n")
		count := min(len(jd.Keywords.Tools), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", jd.Keywords.Tools[i]))
		}
		if len(jd.Keywords.Tools) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(jd.Keywords.Tools)-3))
		}
	}

	p.printBox("ANALYZED JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoleSignal outputs the detected role family with its evidence counts.
func (p *Printer) PrintRoleSignal(role *types.RoleSignal) {
	if role == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:        %s\n", role.Role))
	sb.WriteString(fmt.Sprintf("Confidence:  %.2f\n", role.Confidence))

	if len(role.Signals) > 0 {
		sb.WriteString("\nSignals:\n")
		names := make([]string, 0, len(role.Signals))
		for name := range role.Signals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  %-12s %d\n", name, role.Signals[name]))
		}
	}

	p.printBox("DETECTED ROLE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInferredSkills outputs the skills derived from resume evidence.
func (p *Printer) PrintInferredSkills(skills []types.InferredSkill) {
	if len(skills) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Inferred %d skills:\n\n", len(skills)))

	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		skill := skills[i]
		sb.WriteString(fmt.Sprintf("• %s (%.2f)\n", skill.Skill, skill.Confidence))
		from := skill.DerivedFrom
		if len(from) > 45 {
			from = from[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("  from: %s\n", from))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more skills", len(skills)-maxItemsToShow))
	}

	p.printBox("INFERRED SKILLS", sb.String())
}

// PrintScore outputs the weighted ATS score with per-category coverage.
func (p *Printer) PrintScore(score *types.ScoreResult) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:  %.1f / 100\n", score.Score))
	sb.WriteString(fmt.Sprintf("Risk:   %s\n", score.Risk))
	sb.WriteString("\nCoverage:\n")

	for _, cat := range types.Categories {
		cov, ok := score.Coverage[cat]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-16s %d/%d (%.1f%%)\n", cat, cov.Matched, cov.Total, cov.Percent))
	}

	if len(score.MissingRequired) > 0 {
		sb.WriteString("\nMissing Required:\n")
		count := min(len(score.MissingRequired), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", score.MissingRequired[i]))
		}
		if len(score.MissingRequired) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(score.MissingRequired)-maxItemsToShow))
		}
	}

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGapReport outputs the skill gap severity and its recommendations.
func (p *Printer) PrintGapReport(report *types.SkillGapReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Severity:  %s\n", report.Severity))

	if len(report.PrioritySkills) > 0 {
		skills := strings.Join(report.PrioritySkills, ", ")
		if len(skills) > 40 {
			skills = skills[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Priority:  %s\n", skills))
	}

	if len(report.Recommendations) > 0 {
		sb.WriteString("\n")
		count := min(len(report.Recommendations), maxItemsToShow)
		for i := 0; i < count; i++ {
			rec := report.Recommendations[i]
			message := rec.Message
			if len(message) > 45 {
				message = message[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("⚠ %s\n", rec.Type))
			sb.WriteString(fmt.Sprintf("  %s\n", message))
			if i < count-1 {
				sb.WriteString("\n")
			}
		}
		if len(report.Recommendations) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n... and %d more recommendations\n", len(report.Recommendations)-maxItemsToShow))
		}
	}

	p.printBox("SKILL GAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRewriteResult outputs the grounded rewrite with kept and rejected counts.
func (p *Printer) PrintRewriteResult(result *types.RewriteResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Kept %d bullets, rejected %d:\n\n",
		len(result.Bullets), len(result.RejectedBullets)))

	count := min(len(result.Bullets), maxItemsToShow)
	for i := 0; i < count; i++ {
		text := result.Bullets[i]
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("✓ %s\n", text))
	}
	if len(result.Bullets) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more bullets\n", len(result.Bullets)-maxItemsToShow))
	}

	if len(result.RejectedBullets) > 0 {
		sb.WriteString("\n")
		count := min(len(result.RejectedBullets), 3)
		for i := 0; i < count; i++ {
			text := result.RejectedBullets[i]
			if len(text) > 50 {
				text = text[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("✗ %s\n", text))
		}
		if len(result.RejectedBullets) > 3 {
			sb.WriteString(fmt.Sprintf("... and %d more rejected\n", len(result.RejectedBullets)-3))
		}
	}

	if result.UsedFallback {
		sb.WriteString("\n(all candidates rejected; original text kept)\n")
	}

	p.printBox("GROUNDED REWRITE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatchSummary outputs batch totals with the ranked top entries.
func (p *Printer) PrintBatchSummary(result *types.BatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Processed %d/%d JDs (%d failed)\n",
		result.Summary.Processed, result.Summary.TotalJDs, result.Summary.Failed))
	sb.WriteString(fmt.Sprintf("Average score: %.1f\n", result.Summary.AverageScore))

	if result.Summary.BestMatch != nil {
		sb.WriteString(fmt.Sprintf("Best:  %s (%.1f)\n", result.Summary.BestMatch.Title, result.Summary.BestMatch.Score))
	}
	if result.Summary.WorstMatch != nil {
		sb.WriteString(fmt.Sprintf("Worst: %s (%.1f)\n", result.Summary.WorstMatch.Title, result.Summary.WorstMatch.Score))
	}

	if len(result.Results) > 0 {
		sb.WriteString("\n")
		count := min(len(result.Results), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := result.Results[i]
			title := entry.Title
			if len(title) > 30 {
				title = title[:27] + "..."
			}
			if entry.Failed {
				sb.WriteString(fmt.Sprintf("#%d  %s (failed)\n", i+1, title))
				continue
			}
			sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
			sb.WriteString(fmt.Sprintf("    fit %.1f / ats %.1f\n", entry.FitScore, entry.ATSScore))
		}
		if len(result.Results) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n... and %d more JDs", len(result.Results)-maxItemsToShow))
		}
	}

	p.printBox("BATCH SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRiskFlags outputs any blocking risks found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRiskFlags(flags []types.RiskFlag) {
	if len(flags) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO RISK FLAGS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d risk flags:\n\n", len(flags)))

	for i, flag := range flags {
		detail := flag.Detail
		if len(detail) > 45 {
			detail = detail[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s (%s)\n", flag.Flag, flag.Severity))
		sb.WriteString(fmt.Sprintf("  %s\n", detail))
		if i < len(flags)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RISK FLAGS", sb.String())
}
