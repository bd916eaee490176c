// Package handio reads lists of hands and writes evaluated rows. Hand
// lists are plain lines or YAML; either may be stored in GB18030.
package handio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/domino14/guobiao/analyzer"
)

var (
	ErrUnknownEncoding = errors.New("unknown encoding")
	ErrBadLine         = errors.New("bad hand line")
)

type Format int

const (
	FormatLines Format = iota
	FormatYAML
)

// FormatFor picks the format from a file name.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatLines
}

// Record is one hand to evaluate.
type Record struct {
	Hand      string `yaml:"hand"`
	Flag      string `yaml:"flag,omitempty"`
	Prevalent string `yaml:"prevalent,omitempty"`
	Seat      string `yaml:"seat,omitempty"`
	Flowers   int    `yaml:"flowers,omitempty"`
}

func (r Record) Request(action string) analyzer.Request {
	return analyzer.Request{
		Action:    action,
		Hand:      r.Hand,
		Flag:      r.Flag,
		Prevalent: r.Prevalent,
		Seat:      r.Seat,
		Flowers:   r.Flowers,
	}
}

func charset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	case "gbk", "cp936":
		return simplifiedchinese.GBK, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
}

// NewReader decodes r from the named encoding into UTF-8.
func NewReader(r io.Reader, enc string) (io.Reader, error) {
	e, err := charset(enc)
	if err != nil || e == nil {
		return r, err
	}
	return transform.NewReader(r, e.NewDecoder()), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewWriter encodes UTF-8 written to it into the named encoding. Close
// flushes it without closing w.
func NewWriter(w io.Writer, enc string) (io.WriteCloser, error) {
	e, err := charset(enc)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nopCloser{w}, nil
	}
	return transform.NewWriter(w, e.NewEncoder()), nil
}

// Read reads every record from r.
func Read(r io.Reader, format Format) ([]Record, error) {
	if format == FormatYAML {
		return ReadYAML(r)
	}
	return ReadLines(r)
}

// ReadYAML reads one or more YAML documents, each a list of records.
func ReadYAML(r io.Reader) ([]Record, error) {
	var records []Record
	dec := yaml.NewDecoder(r)
	for {
		var doc []Record
		err := dec.Decode(&doc)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, doc...)
	}
}

// ReadLines reads one hand per line:
//
//	hand [flag [prevalent seat [flowers]]]
//
// Blank lines and lines starting with # are skipped.
func ReadLines(r io.Reader) ([]Record, error) {
	var records []Record
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		records = append(records, rec)
	}
	return records, sc.Err()
}

func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	var rec Record
	switch len(fields) {
	case 5:
		fl, err := strconv.Atoi(fields[4])
		if err != nil {
			return rec, fmt.Errorf("%w: flowers %q", ErrBadLine, fields[4])
		}
		rec.Flowers = fl
		fallthrough
	case 4:
		rec.Prevalent, rec.Seat = fields[2], fields[3]
		fallthrough
	case 2:
		rec.Flag = fields[1]
		fallthrough
	case 1:
		rec.Hand = fields[0]
	default:
		return rec, fmt.Errorf("%w: %d fields", ErrBadLine, len(fields))
	}
	return rec, nil
}
