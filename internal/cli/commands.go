package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	douglas "github.com/douglas-run/douglas"
	"github.com/douglas-run/douglas/internal/config"
)

// PrintList writes the discovered Galaxies, one per line, followed by
// any files that failed to load.
func PrintList(w io.Writer, engine *douglas.Engine) {
	galaxies, problems := engine.List()

	if len(galaxies) == 0 && len(problems) == 0 {
		fmt.Fprintln(w, "no galaxies found in apps/ directory")
		return
	}
	for _, g := range galaxies {
		line := "  " + g.Name
		if g.Description != "" {
			line += "  - " + g.Description
		}
		fmt.Fprintln(w, line)
	}
	for _, p := range problems {
		fmt.Fprintf(w, "  ! %s: %v\n", filepath.Base(p.Path), p.Err)
	}
}

// PrintEnv reports credential presence without leaking the key.
func PrintEnv(w io.Writer, settings *config.Settings) {
	if settings.CredentialSet() {
		fmt.Fprintln(w, "openai_api_key: set")
		fmt.Fprintf(w, "key preview: %s\n", settings.KeyPreview())
	} else {
		fmt.Fprintln(w, "openai_api_key: not set")
	}
	fmt.Fprintf(w, "model: %s\n", settings.Model)
}

// PrintStores lists every Galaxy store file with a human size.
func PrintStores(w io.Writer, dataDir string) {
	dbDir := filepath.Join(dataDir, "databases")
	entries, err := os.ReadDir(dbDir)
	if err != nil {
		fmt.Fprintln(w, "no databases directory")
		return
	}

	var names []string
	sizes := make(map[string]int64)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".db") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".db")
		names = append(names, name)
		sizes[name] = info.Size()
	}
	if len(names) == 0 {
		fmt.Fprintln(w, "no databases found")
		return
	}

	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-20s %8s\n", name, humanSize(sizes[name]))
	}
}

// PrintRecords dumps the persisted rows of a Galaxy's primary model.
func PrintRecords(ctx context.Context, w io.Writer, engine *douglas.Engine, name string) error {
	records, err := engine.Records(ctx, name)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "no entries")
		return nil
	}
	for _, rec := range records {
		stamp := ""
		if !rec.CreatedAt.IsZero() {
			stamp = rec.CreatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%4d  %s  %s\n", rec.ID, stamp, rec.Content)
	}
	return nil
}

func humanSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%db", n)
	case n < 1024*1024:
		return fmt.Sprintf("%dk", n/1024)
	default:
		return fmt.Sprintf("%.1fm", float64(n)/(1024*1024))
	}
}
