package handio

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matryer/is"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/domino14/guobiao/analyzer"
)

func TestReadLines(t *testing.T) {
	is := is.New(t)
	in := `# comment
123m456m789mCCCEE self-drawn S W

11223344556677m
[234m,1][567p,1][345s,1]88sEE8s discard S W 3
`
	recs, err := ReadLines(strings.NewReader(in))
	is.NoErr(err)
	is.Equal(len(recs), 3)
	is.Equal(recs[0], Record{Hand: "123m456m789mCCCEE", Flag: "self-drawn", Prevalent: "S", Seat: "W"})
	is.Equal(recs[1], Record{Hand: "11223344556677m"})
	is.Equal(recs[2].Flowers, 3)

	_, err = ReadLines(strings.NewReader("11m discard S\n"))
	is.True(errors.Is(err, ErrBadLine))
	_, err = ReadLines(strings.NewReader("11m discard S W x\n"))
	is.True(errors.Is(err, ErrBadLine))
}

func TestReadYAML(t *testing.T) {
	is := is.New(t)
	in := `- hand: 123m456m789mCCCEE
  flag: self-drawn
  prevalent: S
  seat: W
---
- hand: 11223344556677m
  flowers: 2
`
	recs, err := Read(strings.NewReader(in), FormatFor("hands.YML"))
	is.NoErr(err)
	is.Equal(len(recs), 2)
	is.Equal(recs[0].Seat, "W")
	is.Equal(recs[1].Flowers, 2)
	is.Equal(recs[1].Request(analyzer.ActionFan).Hand, "11223344556677m")
	is.Equal(FormatFor("hands.txt"), FormatLines)
}

func TestGB18030(t *testing.T) {
	is := is.New(t)
	src := "# 清龙 混一色\n123m456m789mCCCEE self-drawn S W\n"
	encoded, err := simplifiedchinese.GB18030.NewEncoder().String(src)
	is.NoErr(err)
	is.True(encoded != src)

	r, err := NewReader(strings.NewReader(encoded), "GB18030")
	is.NoErr(err)
	recs, err := ReadLines(r)
	is.NoErr(err)
	is.Equal(len(recs), 1)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, "gb18030")
	is.NoErr(err)
	_, err = io.WriteString(w, "清龙 16\n")
	is.NoErr(err)
	is.NoErr(w.Close())
	back, err := simplifiedchinese.GB18030.NewDecoder().String(buf.String())
	is.NoErr(err)
	is.Equal(back, "清龙 16\n")

	_, err = NewReader(strings.NewReader(""), "latin9")
	is.True(errors.Is(err, ErrUnknownEncoding))
}

func TestWriteRows(t *testing.T) {
	is := is.New(t)
	an := analyzer.NewAnalyzer(nil)
	recs := []Record{
		{Hand: "123m456m789mCCCEE", Flag: "self-drawn", Prevalent: "S", Seat: "W"},
		{Hand: "1357m2468s13579pE"},
	}
	var rows []Row
	for _, rec := range recs {
		req := rec.Request(analyzer.ActionFan)
		resp, err := an.Fan(&req)
		rows = append(rows, NewRow(rec, resp, err))
	}
	var buf bytes.Buffer
	is.NoErr(WriteRows(&buf, rows, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	is.Equal(len(lines), 2)
	is.True(strings.HasPrefix(lines[0], "123m456m789mCCCEE\t29\tbasic\t清龙 16"))
	is.True(strings.Contains(lines[1], "error: "))

	ok, failed, points := Summary(rows)
	is.Equal(ok, 1)
	is.Equal(failed, 1)
	is.Equal(points, 29)
}
