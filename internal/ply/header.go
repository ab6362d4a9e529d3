package ply

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	FormatASCII              = "ascii"
	FormatBinaryLittleEndian = "binary_little_endian"

	elementVertex    = "vertex"
	elementRangeGrid = "range_grid"
)

// scalarSizes maps PLY scalar type names, old and new spellings, to their
// width in bytes.
var scalarSizes = map[string]int{
	"char": 1, "int8": 1,
	"uchar": 1, "uint8": 1,
	"short": 2, "int16": 2,
	"ushort": 2, "uint16": 2,
	"int": 4, "int32": 4,
	"uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

// Property is a scalar property declared on the vertex element.
type Property struct {
	Type string
	Name string
}

// Size returns the encoded width of the property in bytes.
func (p Property) Size() int {
	return scalarSizes[p.Type]
}

// Header holds what the reader extracts from a PLY header.
type Header struct {
	// Format is the token after "format". Anything other than "ascii" is
	// decoded as binary little-endian.
	Format         string
	VertexCount    int
	RangeGridCount int
	NumCols        int
	NumRows        int
	// VertexProperties lists the vertex properties in declaration order.
	VertexProperties []Property
	// Length is the number of bytes up to and including the line feed that
	// terminates "end_header".
	Length int64
}

// IsASCII reports whether the body is ASCII.
func (h Header) IsASCII() bool {
	return h.Format == FormatASCII
}

// lineReader reads lines and counts every byte it hands out, terminators
// included, so the binary body can be located by offset.
type lineReader struct {
	br *bufio.Reader
	n  int64
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReader(r)}
}

// next returns the next line with its terminator. ok is false at end of
// input.
func (lr *lineReader) next() (line string, ok bool, err error) {
	line, err = lr.br.ReadString('\n')
	lr.n += int64(len(line))
	if err == io.EOF {
		return line, line != "", nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return line, true, nil
}

// ParseHeader reads a PLY header from r.
func ParseHeader(r io.Reader) (Header, error) {
	return parseHeader(newLineReader(r))
}

func parseHeader(lr *lineReader) (Header, error) {
	var h Header

	line, ok, err := lr.next()
	if err != nil {
		return h, err
	}
	if !ok || strings.TrimSpace(line) != "ply" {
		return h, fmt.Errorf("%w: ply header not found", ErrFormat)
	}

	line, ok, err = lr.next()
	if err != nil {
		return h, err
	}
	fields := strings.Fields(line)
	if !ok || len(fields) == 0 || fields[0] != "format" {
		return h, fmt.Errorf("%w: format not found", ErrFormat)
	}
	if len(fields) < 2 {
		return h, fmt.Errorf("%w: format line has no format name", ErrFormat)
	}
	h.Format = fields[1]

	current := ""
	for {
		line, ok, err = lr.next()
		if err != nil {
			return h, err
		}
		if !ok {
			break
		}
		fields = strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 && fields[0] == "end_header" {
			break
		}

		switch fields[0] {
		case "obj_info":
			if err := h.parseObjInfo(fields); err != nil {
				return h, err
			}
		case "element":
			if len(fields) < 2 {
				return h, fmt.Errorf("%w: element line has no name", ErrFormat)
			}
			current = fields[1]
			switch current {
			case elementVertex:
				if h.VertexCount, err = parseCount(fields, line); err != nil {
					return h, err
				}
			case elementRangeGrid:
				if h.RangeGridCount, err = parseCount(fields, line); err != nil {
					return h, err
				}
			default:
				return h, fmt.Errorf("%w: can't find vertex count: unsupported element %q", ErrFormat, current)
			}
		case "property":
			if current != elementVertex {
				continue
			}
			prop, err := parseProperty(fields)
			if err != nil {
				return h, err
			}
			h.VertexProperties = append(h.VertexProperties, prop)
		}
	}

	h.Length = lr.n
	return h, nil
}

func (h *Header) parseObjInfo(fields []string) error {
	if len(fields) < 2 {
		return nil
	}
	var dst *int
	switch fields[1] {
	case "num_cols":
		dst = &h.NumCols
	case "num_rows":
		dst = &h.NumRows
	default:
		return nil
	}
	if len(fields) < 3 {
		return fmt.Errorf("%w: obj_info %s has no value", ErrFormat, fields[1])
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("%w: obj_info %s: %w", ErrParse, fields[1], err)
	}
	*dst = n
	return nil
}

func parseCount(fields []string, line string) (int, error) {
	if len(fields) < 3 {
		return 0, fmt.Errorf("%w: element %s has no count", ErrFormat, fields[1])
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrParse, strings.TrimSpace(line), err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: element %s has negative count %d", ErrFormat, fields[1], n)
	}
	return n, nil
}

func parseProperty(fields []string) (Property, error) {
	if len(fields) >= 2 && fields[1] == "list" {
		return Property{}, fmt.Errorf("%w: list properties are not supported on vertex", ErrFormat)
	}
	if len(fields) < 3 {
		return Property{}, fmt.Errorf("%w: malformed property line %q", ErrFormat, strings.Join(fields, " "))
	}
	p := Property{Type: fields[1], Name: fields[2]}
	if p.Size() == 0 {
		return Property{}, fmt.Errorf("%w: unknown property type %q", ErrFormat, p.Type)
	}
	return p, nil
}
