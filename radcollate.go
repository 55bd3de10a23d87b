package radcollate

import (
	"io"

	"github.com/scrnaseq/radcollate/section"
)

// OpenRadHeader reads the three sections that precede a RAD file's chunk
// stream, in order: the RadHeader, the file-level FileTags block, and the
// file-level TagSection.
func OpenRadHeader(r io.Reader) (*section.RadHeader, *section.FileTags, *section.TagSection, error) {
	header := &section.RadHeader{}
	if _, err := header.ReadFrom(r); err != nil {
		return nil, nil, nil, err
	}

	tags := &section.FileTags{}
	if _, err := tags.ReadFrom(r); err != nil {
		return nil, nil, nil, err
	}

	tagSection := &section.TagSection{}
	if _, err := tagSection.ReadFrom(r); err != nil {
		return nil, nil, nil, err
	}

	return header, tags, tagSection, nil
}

// WriteRadHeader writes the three sections OpenRadHeader expects, in the
// same order.
func WriteRadHeader(w io.Writer, header *section.RadHeader, tags *section.FileTags, tagSection *section.TagSection) error {
	if _, err := header.WriteTo(w); err != nil {
		return err
	}

	if _, err := tags.WriteTo(w); err != nil {
		return err
	}

	if _, err := tagSection.WriteTo(w); err != nil {
		return err
	}

	return nil
}
