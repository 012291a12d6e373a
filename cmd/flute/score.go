package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/dudk/flute/instrument"
	"github.com/dudk/flute/score"
)

type scoreCommand struct {
	in       string
	velocity float64
}

func (cmd *scoreCommand) Name() string {
	return "score"
}

func (cmd *scoreCommand) Help() string {
	return "Print notes of a score file"
}

func (cmd *scoreCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.in, "in", "", "tab-separated score file (required)")
	fs.Float64Var(&cmd.velocity, "velocity", 1, "velocity of derived notes")
}

// Run prints notes of the score. Notes are not sequenced.
func (cmd *scoreCommand) Run(_ context.Context, c *config) error {
	if cmd.in == "" {
		return errors.New("missing -in required flag")
	}
	song, err := score.ParseFile(cmd.in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %d notes\n", song.Name, len(song.Notes))
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "onset\tkey\tticks\tlength\tnotehead\tnote")
	for _, n := range song.Notes {
		fmt.Fprintf(w, "%.3f\t%d\t%d\t%.3f\t%s\t%v\n",
			n.Onset, n.MidiKey, n.Duration, n.DurationLength, n.NoteheadID,
			instrument.NoteOf(n, cmd.velocity),
		)
	}
	return w.Flush()
}
