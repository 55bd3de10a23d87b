package section

import (
	"io"

	"github.com/scrnaseq/radcollate/errs"
	"github.com/scrnaseq/radcollate/format"
	"github.com/scrnaseq/radcollate/wire"
)

// TagDesc describes one named, typed tag: a length-u16-prefixed UTF-8 name
// followed by a single type-tag byte.
type TagDesc struct {
	Name   string
	TypeID format.RadType
}

// ReadFrom reads a TagDesc.
func (d *TagDesc) ReadFrom(r io.Reader) (int64, error) {
	rd := wire.NewReader(r)

	name, err := rd.ReadString(format.IntU16)
	if err != nil {
		return rd.BytesRead(), err
	}

	typeTag, err := rd.ReadTypeTag()
	if err != nil {
		return rd.BytesRead(), err
	}

	d.Name = name
	d.TypeID = typeTag

	return rd.BytesRead(), nil
}

// WriteTo writes a TagDesc.
func (d *TagDesc) WriteTo(w io.Writer) (int64, error) {
	wr := wire.NewWriter(w)

	if len(d.Name) > 0xFFFF {
		return 0, errs.ErrMalformedHeader
	}

	if err := wr.WriteString(d.Name, format.IntU16); err != nil {
		return wr.BytesWritten(), err
	}

	if err := wr.WriteTypeTag(d.TypeID); err != nil {
		return wr.BytesWritten(), err
	}

	return wr.BytesWritten(), nil
}

// TagSection is a u16-counted list of TagDesc entries.
type TagSection struct {
	Tags []TagDesc
}

// ReadFrom reads a TagSection: a u16 count followed by that many TagDesc.
func (s *TagSection) ReadFrom(r io.Reader) (int64, error) {
	rd := wire.NewReader(r)

	numTags, err := rd.ReadU16()
	if err != nil {
		return rd.BytesRead(), err
	}

	total := rd.BytesRead()

	tags := make([]TagDesc, numTags)
	for i := range tags {
		n, err := tags[i].ReadFrom(r)
		total += n

		if err != nil {
			return total, err
		}
	}

	s.Tags = tags

	return total, nil
}

// WriteTo writes a TagSection.
func (s *TagSection) WriteTo(w io.Writer) (int64, error) {
	wr := wire.NewWriter(w)

	if len(s.Tags) > 0xFFFF {
		return 0, errs.ErrMalformedHeader
	}

	if err := wr.WriteU16(uint16(len(s.Tags))); err != nil {
		return wr.BytesWritten(), err
	}

	total := wr.BytesWritten()

	for i := range s.Tags {
		n, err := s.Tags[i].WriteTo(w)
		total += n

		if err != nil {
			return total, err
		}
	}

	return total, nil
}
