// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-YAML schema so output is
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	URL      string    `yaml:"URL,omitempty"`
	Source   string    `yaml:"source,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes records as a CSL-YAML list to w. Item IDs are the
// source name and the record's position in the run, since records from
// different sources may describe the same paper.
func FormatCSL(records []types.PaperRecord, w io.Writer) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(i, r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(pos int, r types.PaperRecord) CSLItem {
	item := CSLItem{
		ID:     cslID(pos, r),
		Type:   "article",
		Title:  r.Title,
		URL:    r.PDFURL,
		Source: r.Source,
	}
	if r.Summary != types.NoAbstract && r.Summary != types.NoAbstractAvailable {
		item.Abstract = r.Summary
	}

	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if r.Published != nil {
		d := *r.Published
		item.Issued = &CSLDate{
			DateParts: [][]int{{d.Year(), int(d.Month()), d.Day()}},
		}
	}
	return item
}

func cslID(pos int, r types.PaperRecord) string {
	src := r.Source
	if src == "" {
		src = "paper"
	}
	return fmt.Sprintf("%s-%03d", src, pos+1)
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
