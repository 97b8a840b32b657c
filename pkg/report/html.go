package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

type metadataRow struct {
	Key   string
	Value string
}

type entryView struct {
	Module    string
	Name      string
	Status    Status
	Duration  time.Duration
	Phases    []PhaseRecord
	Artifacts []Artifact
}

type reportView struct {
	Title     string
	Generated string
	Metadata  []metadataRow
	Summary   Summary
	Entries   []entryView
}

// Write renders the report as HTML to r.Path.
func (r *Report) Write() error {
	view := reportView{
		Title:     r.Title,
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Summary:   r.Summary(),
	}

	if r.Metadata != nil {
		for pair := r.Metadata.Oldest(); pair != nil; pair = pair.Next() {
			view.Metadata = append(view.Metadata, metadataRow{Key: pair.Key, Value: pair.Value})
		}
	}

	for _, e := range r.Entries() {
		view.Entries = append(view.Entries, entryView{
			Module:    e.Module,
			Name:      e.Name,
			Status:    e.Status(),
			Duration:  e.Duration(),
			Phases:    e.Phases(),
			Artifacts: e.Artifacts(),
		})
	}

	if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(r.Path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := reportTemplate.Execute(f, view); err != nil {
		f.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
