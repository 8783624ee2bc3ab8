package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"journey/internal/config"
	"journey/internal/database"

	"github.com/google/subcommands"
)

// exportCmd writes the stored state as JSON.
type exportCmd struct {
	cfg    *config.Config
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export all goals and entries as JSON" }
func (*exportCmd) Usage() string {
	return `journey export [-o <file>]

  Writes the state in the storage format, current schema version.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, stdout when empty")
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	data, err := json.MarshalIndent(withVersion(sm.Store.State()), "", "  ")
	if err != nil {
		return fail("Error encoding state: %v", err)
	}
	data = append(data, '\n')

	if c.output == "" {
		os.Stdout.Write(data)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fail("Error writing %q: %v", c.output, err)
	}
	return subcommands.ExitSuccess
}

func withVersion(s database.AppState) database.AppState {
	s.Version = database.SchemaVersion
	return s
}

// importCmd replaces the stored state with a JSON export.
type importCmd struct {
	cfg *config.Config
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace all data with a JSON export" }
func (*importCmd) Usage() string {
	return `journey import <file>

  Reads an export, migrating older schema versions, and replaces the stored
  state. Use - to read from stdin.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import expects exactly one file")
		return subcommands.ExitUsageError
	}

	var data []byte
	var err error
	if name := f.Arg(0); name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return fail("Error reading import: %v", err)
	}

	state, from, err := database.Decode(data)
	if err != nil {
		return fail("Error decoding import: %v", err)
	}
	if from > database.SchemaVersion {
		return fail("Error: %v", database.ErrNewerSchema)
	}

	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	if sm.Repository().ReadOnly() {
		return fail("Error: %v", database.ErrNewerSchema)
	}
	if _, err := sm.Store.Replace(state); err != nil {
		return fail("Error saving state: %v", err)
	}
	fmt.Printf("Imported %d goals and %d entries\n", len(state.Goals), len(state.Entries))
	return subcommands.ExitSuccess
}

// queryCmd evaluates a JSONPath expression against the stored state.
type queryCmd struct {
	cfg *config.Config
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression on the stored data" }
func (*queryCmd) Usage() string {
	return `journey query <path>

  Example: journey query '$.entries[?(@.mood == "great")].title'
`
}

func (*queryCmd) SetFlags(*flag.FlagSet) {}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: query expects exactly one JSONPath expression")
		return subcommands.ExitUsageError
	}

	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	result, err := sm.Repository().Query(f.Arg(0))
	if err != nil {
		return fail("Error: %v", err)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fail("Error encoding result: %v", err)
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
