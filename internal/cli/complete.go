package cli

import (
	"flag"

	"journey/internal/config"
	"journey/internal/database"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion builds the shell completion tree from the subcommands and their flags.
// Install with: COMP_INSTALL=1 journey
func Completion(cfg *config.Config) *complete.Command {
	root := &complete.Command{Sub: map[string]*complete.Command{}}
	for _, cmd := range Commands(cfg) {
		root.Sub[cmd.Name()] = commandCompletion(cmd)
	}
	root.Sub["help"] = &complete.Command{Args: predictCommands(cfg)}
	return root
}

func commandCompletion(cmd subcommands.Command) *complete.Command {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)

	c := &complete.Command{Flags: map[string]complete.Predictor{}}
	fs.VisitAll(func(f *flag.Flag) {
		c.Flags[f.Name] = flagPredictor(f.Name)
	})

	switch cmd.Name() {
	case "import":
		c.Args = predict.Files("*.json")
	case "query":
		c.Args = predict.Set{"$.goals[*].title", "$.entries[*].title", "$.entries[*].tags"}
	}
	return c
}

func flagPredictor(name string) complete.Predictor {
	switch name {
	case "mood":
		return predict.Set(moodNames())
	case "type":
		return predict.Set{string(database.Journal), string(database.Blog), string(database.Reflection)}
	case "category":
		return predict.Set(categoryNames())
	case "o":
		return predict.Files("*.json")
	case "raw", "earliest":
		return predict.Nothing
	default:
		return predict.Something
	}
}

func predictCommands(cfg *config.Config) predict.Set {
	var names predict.Set
	for _, cmd := range Commands(cfg) {
		names = append(names, cmd.Name())
	}
	return names
}

func moodNames() []string {
	out := make([]string, len(database.Moods))
	for i, m := range database.Moods {
		out[i] = string(m)
	}
	return out
}

func categoryNames() []string {
	out := make([]string, len(database.Categories))
	for i, c := range database.Categories {
		out[i] = string(c)
	}
	return out
}
