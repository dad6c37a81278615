package licence

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ExtractText returns the text of every page, pages joined by newlines.
// Rows of a table come out one per line.
func ExtractText(rs io.ReadSeeker) (string, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	pages := make([]string, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return "", fmt.Errorf("extracting page %d: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", pageNr, err)
		}
		pages = append(pages, contentText(data))
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return strings.Join(pages, "\n"), nil
}

// operand is a value pushed before a content stream operator
type operand struct {
	num    float64
	isNum  bool
	text   string
	isText bool
}

// contentText interprets the text operators of a page content stream.
// A vertical move starts a new line, a horizontal one inserts a space.
func contentText(data []byte) string {
	var (
		sb       strings.Builder
		operands []operand
		lineY    float64
		haveY    bool
	)

	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	space := func() {
		s := sb.String()
		if len(s) > 0 && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
			sb.WriteByte(' ')
		}
	}
	lastNum := func() (float64, bool) {
		if len(operands) == 0 || !operands[len(operands)-1].isNum {
			return 0, false
		}
		return operands[len(operands)-1].num, true
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case isSpace(c):
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, next := readLiteral(data, i)
			operands = append(operands, operand{text: s, isText: true})
			i = next
		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case c == '>' && i+1 < len(data) && data[i+1] == '>':
			i += 2
		case c == '<':
			s, next := readHex(data, i)
			operands = append(operands, operand{text: s, isText: true})
			i = next
		case c == '[' || c == ']' || c == '{' || c == '}':
			i++
		case c == '/':
			j := i + 1
			for j < len(data) && !isSpace(data[j]) && !isDelim(data[j]) {
				j++
			}
			operands = append(operands, operand{})
			i = j
		default:
			j := i
			for j < len(data) && !isSpace(data[j]) && !isDelim(data[j]) {
				j++
			}
			if j == i {
				j++
			}
			tok := string(data[i:j])
			i = j

			if n, err := strconv.ParseFloat(tok, 64); err == nil {
				operands = append(operands, operand{num: n, isNum: true})
				continue
			}

			switch tok {
			case "Tj":
				if len(operands) > 0 && operands[len(operands)-1].isText {
					sb.WriteString(operands[len(operands)-1].text)
				}
			case "TJ":
				for _, op := range operands {
					switch {
					case op.isText:
						sb.WriteString(op.text)
					case op.isNum && op.num < -250:
						space()
					}
				}
			case "'", "\"":
				newline()
				if len(operands) > 0 && operands[len(operands)-1].isText {
					sb.WriteString(operands[len(operands)-1].text)
				}
			case "Td", "TD":
				if ty, ok := lastNum(); ok && ty != 0 {
					newline()
				} else {
					space()
				}
			case "Tm":
				if ty, ok := lastNum(); ok {
					if !haveY || ty != lineY {
						newline()
					} else {
						space()
					}
					lineY, haveY = ty, true
				}
			case "T*":
				newline()
			}
			operands = operands[:0]
		}
	}

	return strings.TrimSpace(sb.String())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

// readLiteral reads a (string) starting at data[start], honouring nested
// parentheses and backslash escapes. It returns the decoded text and the
// index after the closing parenthesis.
func readLiteral(data []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for ; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '\\' && i+1 < len(data):
			i++
			switch e := data[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
			case '\n', '\r':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && i+1 < len(data) && data[i+1] >= '0' && data[i+1] <= '7'; k++ {
						i++
						val = val*8 + int(data[i]-'0')
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(e)
				}
			}
		case c == '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), i
}

// readHex reads a <hex> string starting at data[start]
func readHex(data []byte, start int) (string, int) {
	var digits []byte
	i := start + 1
	for ; i < len(data) && data[i] != '>'; i++ {
		if !isSpace(data[i]) {
			digits = append(digits, data[i])
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	var sb strings.Builder
	for k := 0; k+1 < len(digits); k += 2 {
		v, err := strconv.ParseUint(string(digits[k:k+2]), 16, 8)
		if err != nil {
			continue
		}
		sb.WriteByte(byte(v))
	}
	return sb.String(), i + 1
}
