package extract

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// PDFCPUEngine reads PDFs with github.com/pdfcpu/pdfcpu. A page's tokens are
// the string operands of its text-showing operators.
type PDFCPUEngine struct{}

// NewPDFCPUEngine returns a pdfcpu engine. pdfcpu's on-disk config directory is disabled.
func NewPDFCPUEngine() PDFCPUEngine {
	disableConfigDir.Do(api.DisableConfigDir)
	return PDFCPUEngine{}
}

// Name returns "pdfcpu".
func (PDFCPUEngine) Name() string { return EnginePDFCPU }

// Open reads and validates the whole buffer.
func (PDFCPUEngine) Open(content []byte) (PDFDocument, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return &pdfcpuDocument{ctx: ctx}, nil
}

type pdfcpuDocument struct {
	ctx *model.Context
}

func (d *pdfcpuDocument) NumPages() int {
	return d.ctx.PageCount
}

func (d *pdfcpuDocument) PageTokens(page int) ([]string, error) {
	r, err := pdfcpu.ExtractPageContent(d.ctx, page)
	if err != nil {
		return nil, fmt.Errorf("extract page %d content: %w", page, err)
	}
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read page %d content: %w", page, err)
	}
	return contentStreamTokens(data), nil
}

// showTextOp matches a string or array operand followed by a text-showing
// operator (Tj, TJ, ' or ").
var showTextOp = regexp.MustCompile(`(\((?:\\.|[^\\)])*\)|\[(?:\((?:\\.|[^\\)])*\)|[^\]\(])*\])\s*(?:Tj|TJ|'|")`)

// pdfStringLiteral matches a literal string operand, allowing escaped parentheses.
var pdfStringLiteral = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// contentStreamTokens returns one token per text-showing operator. The pieces
// of a TJ array are concatenated, since they are kerned parts of one run.
func contentStreamTokens(data []byte) []string {
	var tokens []string
	for _, op := range showTextOp.FindAllSubmatch(data, -1) {
		var run bytes.Buffer
		for _, m := range pdfStringLiteral.FindAllSubmatch(op[1], -1) {
			run.Write(decodePDFString(m[1]))
		}
		if run.Len() > 0 {
			tokens = append(tokens, run.String())
		}
	}
	return tokens
}

// decodePDFString resolves backslash escapes, including octal codes.
func decodePDFString(raw []byte) []byte {
	var b bytes.Buffer
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			b.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '\\', '(', ')':
			b.WriteByte(c)
		default:
			if c < '0' || c > '7' {
				b.WriteByte(c)
				continue
			}
			val := int(c - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			b.WriteByte(byte(val))
		}
	}
	return b.Bytes()
}
