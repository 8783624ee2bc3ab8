package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"journey/internal/config"
	"journey/internal/database"
	"journey/internal/services"

	"github.com/google/subcommands"
)

// entryCmd writes a journal entry.
type entryCmd struct {
	cfg       *config.Config
	title     string
	content   string
	date      string
	mood      string
	entryType string
	tags      string
	goals     string
}

func (*entryCmd) Name() string     { return "entry" }
func (*entryCmd) Synopsis() string { return "write a journal entry" }
func (*entryCmd) Usage() string {
	return `journey entry -title <title> -content <text> [-mood <mood>] [-type <type>] [-tags a,b] [-goals id1,id2] [-date YYYY-MM-DD]

  Adds an entry. Mood defaults to okay, type to journal and date to today.
  Tags are lower-cased and deduplicated. Unknown goal ids are ignored.
`
}

func (c *entryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "", "entry title")
	f.StringVar(&c.content, "content", "", "entry text, markdown allowed")
	f.StringVar(&c.date, "date", "", "day of the entry, defaults to today")
	f.StringVar(&c.mood, "mood", "", "great, good, okay, bad or terrible")
	f.StringVar(&c.entryType, "type", "", "journal, blog or reflection")
	f.StringVar(&c.tags, "tags", "", "comma separated tags")
	f.StringVar(&c.goals, "goals", "", "comma separated goal ids")
}

func (c *entryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	entry, err := sm.Entry.Create(services.EntryInput{
		Title:       c.title,
		Content:     c.content,
		Date:        c.date,
		Mood:        database.Mood(c.mood),
		Type:        database.EntryType(c.entryType),
		LinkedGoals: splitList(c.goals),
		Tags:        services.ParseTags(c.tags),
	})
	if err != nil {
		return fail("Error: %v", err)
	}
	fmt.Println(entry.ID)
	return subcommands.ExitSuccess
}

// goalCmd creates a goal.
type goalCmd struct {
	cfg         *config.Config
	title       string
	description string
	category    string
	target      string
	color       string
	milestones  string
}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "create a goal" }
func (*goalCmd) Usage() string {
	return `journey goal -title <title> [-category <category>] [-milestones "m1;m2"] [-target YYYY-MM-DD] [-color #rrggbb]
`
}

func (c *goalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "", "goal title")
	f.StringVar(&c.description, "description", "", "why the goal matters")
	f.StringVar(&c.category, "category", "", "health, career, personal, financial, learning or relationships")
	f.StringVar(&c.target, "target", "", "target day, defaults to the end of the journey")
	f.StringVar(&c.color, "color", "", "hex color")
	f.StringVar(&c.milestones, "milestones", "", "semicolon separated milestone titles")
}

func (c *goalCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	goal, err := sm.Goal.Create(services.GoalInput{
		Title:       c.title,
		Description: c.description,
		Category:    database.Category(c.category),
		TargetDate:  c.target,
		Color:       c.color,
		Milestones:  strings.Split(c.milestones, ";"),
	})
	if err != nil {
		return fail("Error: %v", err)
	}
	fmt.Println(goal.ID)
	return subcommands.ExitSuccess
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
