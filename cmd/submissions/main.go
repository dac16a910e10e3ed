// Command submissions lists the contact and newsletter submissions stored by
// the sqlite forms backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/db"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/repository"
	"github.com/debemdeboas/the-showcase/internal/util/compression"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+fields[k])
	}
	return strings.Join(parts, "\n")
}

func renderSubmissions(w io.Writer, subs []model.Submission, total int) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d of %d submissions", len(subs), total)))
	if len(subs) == 0 {
		return
	}

	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []string{
			s.CreatedAt.Local().Format(time.DateTime),
			string(s.Kind),
			formatFields(s.Fields),
			string(s.ID),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("RECEIVED", "KIND", "FIELDS", "ID").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func main() {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	dbPath := flag.String("db", cfg.Storage.DatabasePath, "SQLite database written by the sqlite forms backend")
	kind := flag.String("kind", "", "Only list this kind (contact or newsletter)")
	limit := flag.Int("limit", 20, "Maximum rows to show, 0 for all")
	algo := flag.String("compression", cfg.Storage.Compression, "Compression the server was configured with (zstd or gzip)")
	flag.Parse()

	switch model.FormKind(*kind) {
	case "", model.FormContact, model.FormNewsletter:
	default:
		fmt.Fprintf(os.Stderr, "Unknown kind %q\n", *kind)
		os.Exit(2)
	}

	compressor, err := compression.ForName(*algo)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	sqlite := db.NewSQLite(*dbPath)
	if err := sqlite.InitDB(); err != nil {
		fmt.Fprintf(os.Stderr, config.ErrInitializeDatabaseFmt+"\n", err)
		os.Exit(1)
	}
	defer sqlite.Close()

	repo := repository.NewDBSubmissionRepository(sqlite, compressor)
	ctx := context.Background()

	subs, err := repo.List(ctx, model.FormKind(*kind), *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error listing submissions:", err)
		os.Exit(1)
	}
	total, err := repo.Count(ctx, model.FormKind(*kind))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error counting submissions:", err)
		os.Exit(1)
	}

	renderSubmissions(os.Stdout, subs, total)
}
