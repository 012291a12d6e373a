// Package score reads tab-separated score files into ordered note events.
//
// Every line is a record. A record is a note when its second field is
// "note". Note fields are: onset in seconds, record type, MIDI key,
// duration in ticks, duration in seconds and a pair of notehead numbers
// separated with space. Records of other types are skipped. Malformed note
// records fail the whole parse.
package score

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	fieldOnset = iota
	fieldType
	fieldKey
	fieldDuration
	fieldLength
	fieldNotehead
	noteFields
)

// NoteRecord is the record type of note events.
const NoteRecord = "note"

// ErrParse is returned when score text is malformed.
var ErrParse = errors.New("malformed score")

// ParseError describes the malformed field of score text.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Field, e.Err)
}

// Unwrap returns underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse for all parse errors.
func (e *ParseError) Is(err error) bool {
	return err == ErrParse
}

// IOError is returned when score file cannot be read.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// SongNote is a note event of the score.
type SongNote struct {
	Onset          float64 // seconds
	MidiKey        uint
	Duration       uint    // ticks
	DurationLength float64 // seconds
	NoteheadID     string
}

// Song is a parsed score file.
type Song struct {
	Name  string
	Notes []SongNote
}

// Parse reads all note events from score text. Notes are returned in the
// order of records.
func Parse(r io.Reader) ([]SongNote, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var notes []SongNote
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return notes, nil
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Field: "record", Err: csvErr.Err}
			}
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if len(record) <= fieldType || record[fieldType] != NoteRecord {
			continue
		}
		note, perr := parseNote(record)
		if perr != nil {
			perr.Line = line
			return nil, perr
		}
		notes = append(notes, note)
	}
}

func parseNote(record []string) (SongNote, *ParseError) {
	if len(record) < noteFields {
		return SongNote{}, &ParseError{Field: "record", Err: fmt.Errorf("%d fields, want %d", len(record), noteFields)}
	}
	var (
		note SongNote
		err  error
	)
	if note.Onset, err = strconv.ParseFloat(record[fieldOnset], 64); err != nil {
		return SongNote{}, &ParseError{Field: "onset", Err: err}
	}
	if note.MidiKey, err = parseUint(record[fieldKey]); err != nil {
		return SongNote{}, &ParseError{Field: "midi key", Err: err}
	}
	if note.Duration, err = parseUint(record[fieldDuration]); err != nil {
		return SongNote{}, &ParseError{Field: "duration", Err: err}
	}
	if note.DurationLength, err = strconv.ParseFloat(record[fieldLength], 64); err != nil {
		return SongNote{}, &ParseError{Field: "duration length", Err: err}
	}
	if note.NoteheadID, err = noteheadID(record[fieldNotehead]); err != nil {
		return SongNote{}, &ParseError{Field: "notehead", Err: err}
	}
	return note, nil
}

func parseUint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint(v), err
}

// noteheadID formats the notehead pair as Note-{first}-{second}.
func noteheadID(s string) (string, error) {
	ids := strings.Fields(s)
	if len(ids) < 2 {
		return "", fmt.Errorf("%q is not a pair", s)
	}
	var pair [2]uint
	for i := range pair {
		v, err := parseUint(ids[i])
		if err != nil {
			return "", err
		}
		pair[i] = v
	}
	return fmt.Sprintf("Note-%d-%d", pair[0], pair[1]), nil
}

// ParseFile reads score file. Song is named after the base name of path.
func ParseFile(path string) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	notes, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Song{
		Name:  filepath.Base(path),
		Notes: notes,
	}, nil
}
