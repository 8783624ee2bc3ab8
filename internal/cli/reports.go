package cli

import (
	"context"
	"flag"
	"time"

	"journey/internal/config"
	"journey/internal/database"
	"journey/internal/report"
	"journey/internal/services"

	"github.com/google/subcommands"
)

// dashboardCmd prints the main screen.
type dashboardCmd struct {
	cfg *config.Config
	raw bool
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the countdown, streak, goals and recent entries" }
func (*dashboardCmd) Usage() string {
	return `journey dashboard [-raw]

  Displays the days remaining, the time progress, the streak and the goals.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
}

func (c *dashboardCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	r := report.New(time.Now(), c.cfg.Journey.Location)
	printMarkdown(r.Dashboard(sm.Analytics.Dashboard()), c.raw)
	return subcommands.ExitSuccess
}

// journalCmd lists entries grouped by day.
type journalCmd struct {
	cfg       *config.Config
	query     string
	entryType string
	mood      string
	goal      string
	raw       bool
}

func (*journalCmd) Name() string     { return "journal" }
func (*journalCmd) Synopsis() string { return "list journal entries, optionally filtered" }
func (*journalCmd) Usage() string {
	return `journey journal [-q <text>] [-type <type>] [-mood <mood>] [-goal <id>]

  Lists entries grouped by day, newest first. The text filter matches
  titles, content and tags, ignoring case.
`
}

func (c *journalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "search text")
	f.StringVar(&c.entryType, "type", "", "journal, blog or reflection")
	f.StringVar(&c.mood, "mood", "", "great, good, okay, bad or terrible")
	f.StringVar(&c.goal, "goal", "", "only entries linked to this goal id")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
}

func (c *journalCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	entries := sm.Entry.List(services.EntryFilter{
		Type:   database.EntryType(c.entryType),
		Mood:   database.Mood(c.mood),
		GoalID: c.goal,
		Query:  c.query,
	})
	r := report.New(time.Now(), c.cfg.Journey.Location)
	printMarkdown(r.Journal(entries), c.raw)
	return subcommands.ExitSuccess
}

// goalsCmd lists goals with their milestones.
type goalsCmd struct {
	cfg      *config.Config
	query    string
	category string
	raw      bool
}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "list goals with milestones and progress" }
func (*goalsCmd) Usage() string {
	return `journey goals [-q <text>] [-category <category>]
`
}

func (c *goalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "search text in title and description")
	f.StringVar(&c.category, "category", "", "health, career, personal, financial, learning or relationships")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
}

func (c *goalsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	goals := sm.Goal.List(services.GoalFilter{Category: database.Category(c.category), Query: c.query})
	r := report.New(time.Now(), c.cfg.Journey.Location)
	printMarkdown(r.Goals(goals), c.raw)
	return subcommands.ExitSuccess
}

// gridCmd prints the contribution grid.
type gridCmd struct {
	cfg      *config.Config
	weeks    int
	earliest bool
	raw      bool
}

func (*gridCmd) Name() string     { return "grid" }
func (*gridCmd) Synopsis() string { return "show the activity grid of the last weeks" }
func (*gridCmd) Usage() string {
	return `journey grid [-weeks <n>] [-earliest]

  Draws one row per weekday, Sunday first, and one column per week. The
  last column contains today.
`
}

func (c *gridCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.weeks, "weeks", 12, "number of weeks")
	f.BoolVar(&c.earliest, "earliest", false, "color days by their first entry instead of the last one")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
}

func (c *gridCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.weeks <= 0 {
		return fail("Error: -weeks must be positive")
	}
	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	policy := services.MoodOfLatest
	if c.earliest {
		policy = services.MoodOfEarliest
	}
	r := report.New(time.Now(), c.cfg.Journey.Location)
	printMarkdown(r.Grid(sm.Analytics.Grid(c.weeks, policy)), c.raw)
	return subcommands.ExitSuccess
}

// moodCmd prints the mood summary.
type moodCmd struct {
	cfg  *config.Config
	days int
	raw  bool
}

func (*moodCmd) Name() string     { return "mood" }
func (*moodCmd) Synopsis() string { return "show the average mood and its distribution" }
func (*moodCmd) Usage() string {
	return `journey mood [-days <n>]
`
}

func (c *moodCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 7, "trailing window in days, today included")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
}

func (c *moodCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.days <= 0 {
		return fail("Error: -days must be positive")
	}
	sm, closer, err := openServices(c.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer closer.Close()

	r := report.New(time.Now(), c.cfg.Journey.Location)
	printMarkdown(r.Mood(sm.Analytics.Mood(c.days)), c.raw)
	return subcommands.ExitSuccess
}
