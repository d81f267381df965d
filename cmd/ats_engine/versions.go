package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/history"
	"github.com/jonathan/ats-engine/internal/ingest"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Manage a resume's edit history",
	Long:  "Push, undo, redo, and list versions in a resume edit timeline stored as a JSON file. Editing after an undo forks the timeline; the redo tail is discarded.",
	RunE:  runVersions,
}

var (
	versionsFile    string
	versionsPush    string
	versionsSummary string
	versionsUndo    bool
	versionsRedo    bool
	versionsList    bool
	versionsShow    bool
)

func init() {
	versionsCmd.Flags().StringVarP(&versionsFile, "file", "f", "", "Path to the history JSON file (created by the first push) (required)")
	versionsCmd.Flags().StringVar(&versionsPush, "push", "", "Path to a resume file to record as a new version")
	versionsCmd.Flags().StringVar(&versionsSummary, "summary", "", "Change summary for --push")
	versionsCmd.Flags().BoolVar(&versionsUndo, "undo", false, "Move to the previous version")
	versionsCmd.Flags().BoolVar(&versionsRedo, "redo", false, "Move forward after an undo")
	versionsCmd.Flags().BoolVar(&versionsList, "list", false, "List all versions, oldest first")
	versionsCmd.Flags().BoolVar(&versionsShow, "show", false, "Print the current version's content")
	_ = versionsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(versionsCmd)
}

func runVersions(_ *cobra.Command, _ []string) error {
	actions := 0
	for _, set := range []bool{versionsPush != "", versionsUndo, versionsRedo, versionsList, versionsShow} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return fmt.Errorf("exactly one of --push, --undo, --redo, --list, or --show is required")
	}

	h, err := loadHistory(versionsFile)
	if err != nil {
		return err
	}

	switch {
	case versionsPush != "":
		content, err := ingest.ExtractFile(versionsPush)
		if err != nil {
			return err
		}
		version := h.Push(content, versionsSummary)
		if err := saveHistory(versionsFile, h); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Recorded %s (%d versions)\n", version.ID, h.Len())
		return nil

	case versionsUndo:
		version, ok := h.Undo()
		if !ok {
			return fmt.Errorf("nothing to undo: already at the oldest version")
		}
		if err := saveHistory(versionsFile, h); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Now at %s: %s\n", version.ID, version.Summary)
		return nil

	case versionsRedo:
		version, ok := h.Redo()
		if !ok {
			return fmt.Errorf("nothing to redo: already at the newest version")
		}
		if err := saveHistory(versionsFile, h); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Now at %s: %s\n", version.ID, version.Summary)
		return nil

	case versionsList:
		current, _ := h.Current()
		for _, version := range h.Versions() {
			marker := "  "
			if version.ID == current.ID {
				marker = "* "
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s%s  %s  %s\n",
				marker, version.ID, version.CreatedAt.Format("2006-01-02 15:04"), version.Summary)
		}
		return nil

	default: // --show
		version, ok := h.Current()
		if !ok {
			return fmt.Errorf("history is empty: %s", versionsFile)
		}
		_, _ = fmt.Fprintln(os.Stdout, version.Content)
		return nil
	}
}

// loadHistory reads the history file; a missing file starts a fresh timeline.
func loadHistory(path string) (*history.History, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return history.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var snapshot history.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse history JSON: %w", err)
	}
	return history.FromSnapshot(snapshot), nil
}

func saveHistory(path string, h *history.History) error {
	data, err := json.MarshalIndent(h.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
