package data

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

type ARFFReader struct {
	filename string
}

func NewARFFReader(filename string) *ARFFReader {
	return &ARFFReader{filename: filename}
}

// LoadData reads a dense ARFF file. Numeric (numeric, real, integer) and
// nominal attributes are supported; '?' marks a missing value. The class
// index is left unset, as the format does not declare one.
func (ar *ARFFReader) LoadData() (*Dataset, error) {
	file, err := os.Open(ar.filename)
	if err != nil {
		return nil, openError(ar.filename, err)
	}
	defer file.Close()

	ds, err := ParseARFF(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, ar.filename, err)
	}
	return ds, nil
}

func ParseARFF(r io.Reader) (*Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		relation   string
		attributes []Attribute
		ds         *Dataset
		lineNo     int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		if ds == nil {
			keyword, rest := splitKeyword(line)
			switch strings.ToLower(keyword) {
			case "@relation":
				relation = unquote(strings.TrimSpace(rest))
			case "@attribute":
				attr, err := parseAttribute(rest)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				attributes = append(attributes, attr)
			case "@data":
				if len(attributes) == 0 {
					return nil, fmt.Errorf("line %d: @data before any @attribute", lineNo)
				}
				ds = NewDataset(relation, attributes)
			default:
				return nil, fmt.Errorf("line %d: unexpected header line %q", lineNo, line)
			}
			continue
		}

		if strings.HasPrefix(line, "{") {
			return nil, fmt.Errorf("line %d: sparse instances are not supported", lineNo)
		}
		row, err := parseInstance(ds.Attributes, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		ds.Rows = append(ds.Rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("no @data section")
	}
	return ds, nil
}

func splitKeyword(line string) (string, string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

func parseAttribute(decl string) (Attribute, error) {
	decl = strings.TrimSpace(decl)
	name, rest, err := readName(decl)
	if err != nil {
		return Attribute{}, err
	}
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "{") {
		end := strings.LastIndex(rest, "}")
		if end < 0 {
			return Attribute{}, fmt.Errorf("attribute %q: unterminated nominal domain", name)
		}
		values, err := splitFields(rest[1:end])
		if err != nil {
			return Attribute{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		return NewNominalAttribute(name, values), nil
	}

	typ, _ := splitKeyword(rest)
	switch strings.ToLower(typ) {
	case "numeric", "real", "integer":
		return NewNumericAttribute(name), nil
	default:
		return Attribute{}, fmt.Errorf("attribute %q: unsupported type %q", name, typ)
	}
}

func readName(decl string) (string, string, error) {
	if decl == "" {
		return "", "", fmt.Errorf("missing attribute name")
	}
	if q := decl[0]; q == '\'' || q == '"' {
		end := strings.IndexByte(decl[1:], q)
		if end < 0 {
			return "", "", fmt.Errorf("unterminated quoted name in %q", decl)
		}
		return decl[1 : end+1], decl[end+2:], nil
	}
	name, rest := splitKeyword(decl)
	return name, rest, nil
}

func parseInstance(attributes []Attribute, line string) ([]Value, error) {
	fields, err := splitFields(line)
	if err != nil {
		return nil, err
	}
	if len(fields) != len(attributes) {
		return nil, fmt.Errorf("expected %d values, got %d", len(attributes), len(fields))
	}

	row := make([]Value, len(fields))
	for j, field := range fields {
		if field == "?" {
			row[j] = MissingValue()
			continue
		}
		attr := attributes[j]
		if attr.IsNominal() {
			idx := attr.IndexOf(field)
			if idx < 0 {
				return nil, fmt.Errorf("value %q not in domain of %q", field, attr.Name)
			}
			row[j] = Cat(idx)
			continue
		}
		num, err := decimal.NewFromString(field)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: invalid number %q", attr.Name, field)
		}
		row[j] = Num(num)
	}
	return row, nil
}

// splitFields splits a comma separated list, honouring single and double
// quotes and trimming unquoted whitespace.
func splitFields(s string) ([]string, error) {
	var (
		fields []string
		field  strings.Builder
		quote  byte
		quoted bool
	)

	flush := func() {
		v := field.String()
		if !quoted {
			v = strings.TrimSpace(v)
		}
		fields = append(fields, v)
		field.Reset()
		quoted = false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(s) {
				i++
				field.WriteByte(s[i])
			} else if c == quote {
				quote = 0
			} else {
				field.WriteByte(c)
			}
		case c == '\'' || c == '"':
			if strings.TrimSpace(field.String()) == "" {
				field.Reset()
			}
			quote = c
			quoted = true
		case c == ',':
			flush()
		default:
			if quoted && c != ' ' && c != '\t' {
				return nil, fmt.Errorf("unexpected %q after quoted value", c)
			}
			if !quoted {
				field.WriteByte(c)
			}
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()
	return fields, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
