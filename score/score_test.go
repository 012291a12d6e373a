package score_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/flute/score"
)

func TestParse(t *testing.T) {
	tests := []struct {
		description string
		text        string
		expected    []score.SongNote
	}{
		{
			description: "single note",
			text:        "0.0\tnote\t69\t480\t1.0\t12 3\n",
			expected: []score.SongNote{
				{Onset: 0, MidiKey: 69, Duration: 480, DurationLength: 1, NoteheadID: "Note-12-3"},
			},
		},
		{
			description: "rest is skipped",
			text: strings.Join([]string{
				"0.0\tnote\t69\t480\t1.0\t12 3",
				"1.0\trest\t480\t1.0",
				"2.0\tnote\t81\t240\t0.5\t14 1",
			}, "\n"),
			expected: []score.SongNote{
				{Onset: 0, MidiKey: 69, Duration: 480, DurationLength: 1, NoteheadID: "Note-12-3"},
				{Onset: 2, MidiKey: 81, Duration: 240, DurationLength: 0.5, NoteheadID: "Note-14-1"},
			},
		},
		{
			description: "unknown records and short lines are skipped",
			text:        "title\n0.0\ttempo\t120\n\n",
		},
		{
			description: "empty",
			text:        "",
		},
	}

	for _, test := range tests {
		notes, err := score.Parse(strings.NewReader(test.text))
		assert.NoError(t, err, test.description)
		assert.Equal(t, test.expected, notes, test.description)
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		description string
		text        string
		line        int
		field       string
	}{
		{
			description: "non-numeric onset",
			text:        "zero\tnote\t69\t480\t1.0\t12 3",
			line:        1,
			field:       "onset",
		},
		{
			description: "negative key",
			text:        "0.0\tnote\t69\t480\t1.0\t12 3\n1.0\tnote\t-1\t480\t1.0\t12 4",
			line:        2,
			field:       "midi key",
		},
		{
			description: "bad duration",
			text:        "0.0\tnote\t69\tlong\t1.0\t12 3",
			line:        1,
			field:       "duration",
		},
		{
			description: "bad length",
			text:        "0.0\tnote\t69\t480\t?\t12 3",
			line:        1,
			field:       "duration length",
		},
		{
			description: "single notehead",
			text:        "0.0\tnote\t69\t480\t1.0\t12",
			line:        1,
			field:       "notehead",
		},
		{
			description: "missing fields",
			text:        "0.0\tnote\t69",
			line:        1,
			field:       "record",
		},
	}

	for _, test := range tests {
		notes, err := score.Parse(strings.NewReader(test.text))
		assert.Nil(t, notes, test.description)
		assert.True(t, errors.Is(err, score.ErrParse), test.description)
		var parseErr *score.ParseError
		require.True(t, errors.As(err, &parseErr), test.description)
		assert.Equal(t, test.line, parseErr.Line, test.description)
		assert.Equal(t, test.field, parseErr.Field, test.description)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minuet.tsv")
	err := os.WriteFile(path, []byte("0.0\tnote\t69\t480\t1.0\t12 3\n0.5\tnote\t71\t480\t1.0\t13 3\n"), 0o644)
	require.NoError(t, err)

	song, err := score.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "minuet.tsv", song.Name)
	assert.Len(t, song.Notes, 2)
	assert.Equal(t, uint(71), song.Notes[1].MidiKey)

	missing := filepath.Join(t.TempDir(), "missing.tsv")
	_, err = score.ParseFile(missing)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	var ioErr *score.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Op)
	assert.Equal(t, missing, ioErr.Path)
	assert.False(t, errors.Is(err, score.ErrParse))

	bad := filepath.Join(t.TempDir(), "bad.tsv")
	require.NoError(t, os.WriteFile(bad, []byte("x\tnote\t69\t480\t1.0\t12 3\n"), 0o644))
	_, err = score.ParseFile(bad)
	assert.True(t, errors.Is(err, score.ErrParse))
}
