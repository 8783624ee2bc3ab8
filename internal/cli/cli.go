// Package cli implements the journey command line: the server, terminal reports and data import/export.
package cli

import (
	"fmt"
	"io"
	"os"

	"journey/internal/app"
	"journey/internal/config"
	"journey/internal/services"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Commands lists every subcommand bound to cfg.
func Commands(cfg *config.Config) []subcommands.Command {
	return []subcommands.Command{
		&serveCmd{cfg: cfg},
		&dashboardCmd{cfg: cfg},
		&journalCmd{cfg: cfg},
		&goalsCmd{cfg: cfg},
		&gridCmd{cfg: cfg},
		&moodCmd{cfg: cfg},
		&entryCmd{cfg: cfg},
		&goalCmd{cfg: cfg},
		&exportCmd{cfg: cfg},
		&importCmd{cfg: cfg},
		&queryCmd{cfg: cfg},
	}
}

// Register adds the commands to the commander, grouped like the help output.
func Register(c *subcommands.Commander, cfg *config.Config) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	for _, cmd := range Commands(cfg) {
		c.Register(cmd, groupOf(cmd.Name()))
	}
}

func groupOf(name string) string {
	switch name {
	case "serve":
		return ""
	case "export", "import", "query":
		return "data"
	case "entry", "goal":
		return "write"
	default:
		return "reports"
	}
}

// openServices opens the configured storage for a single command run.
func openServices(cfg *config.Config) (*services.ServiceManager, io.Closer, error) {
	sm, closer, err := app.OpenServices(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return sm, closer, nil
}

// printMarkdown renders markdown for the terminal, falling back to the raw text.
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
