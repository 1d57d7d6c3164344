package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/net/html"
)

// Renderer turns rendered HTML documents into PDF bytes.
type Renderer interface {
	Render(title string, htmlDoc string) ([]byte, error)
}

type Options struct {
	Orientation string
	PageSize    string
	FontFamily  string
	FontSize    float64
	Margin      float64
}

func DefaultOptions() Options {
	return Options{
		Orientation: "P",
		PageSize:    "A4",
		FontFamily:  "Helvetica",
		FontSize:    11,
		Margin:      18,
	}
}

type basicRenderer struct {
	opts Options
}

// NewRenderer returns a gofpdf based renderer. It understands a reduced HTML
// vocabulary, so layout and CSS are dropped but text, emphasis, links and
// line structure survive.
func NewRenderer(opts Options) Renderer {
	return &basicRenderer{opts: opts}
}

func (r *basicRenderer) Render(title string, htmlDoc string) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pdf render panic: %v", p)
		}
	}()

	doc := gofpdf.New(r.opts.Orientation, "mm", r.opts.PageSize, "")
	doc.SetTitle(title, true)
	doc.SetMargins(r.opts.Margin, r.opts.Margin, r.opts.Margin)
	doc.SetAutoPageBreak(true, r.opts.Margin)
	doc.AddPage()
	doc.SetFont(r.opts.FontFamily, "", r.opts.FontSize)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	_, lineHt := doc.GetFontSize()

	writer := doc.HTMLBasicNew()
	writer.Write(lineHt*1.6, tr(Simplify(htmlDoc)))

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("failed to layout pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var skipped = map[string]bool{"head": true, "style": true, "script": true, "title": true}

var blockEnd = map[string]bool{
	"p": true, "div": true, "tr": true, "li": true, "table": true,
	"ul": true, "ol": true, "section": true, "header": true, "footer": true,
}

var headings = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

// Simplify reduces an HTML document to the tags gofpdf's HTMLBasic writer
// supports: b, i, u, a and br.
func Simplify(htmlDoc string) string {
	z := html.NewTokenizer(strings.NewReader(htmlDoc))
	var out strings.Builder
	skipDepth := 0
	breaks := 0
	pendingSpace := false

	lineBreak := func() {
		if breaks < 2 && out.Len() > 0 {
			out.WriteString("<br>")
			breaks++
		}
		pendingSpace = false
	}
	write := func(s string) {
		out.WriteString(s)
		breaks = 0
	}
	space := func() {
		if pendingSpace && breaks == 0 && out.Len() > 0 {
			write(" ")
		}
		pendingSpace = false
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		tok := z.Token()
		name := tok.Data

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			if skipped[name] {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			switch {
			case name == "b" || name == "strong":
				space()
				write("<b>")
			case name == "i" || name == "em":
				space()
				write("<i>")
			case name == "u":
				space()
				write("<u>")
			case name == "a":
				space()
				write(fmt.Sprintf(`<a href="%s">`, attr(tok, "href")))
			case name == "br":
				out.WriteString("<br>")
				breaks++
				pendingSpace = false
			case headings[name]:
				lineBreak()
				write("<b>")
			}

		case html.EndTagToken:
			if skipped[name] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			switch {
			case name == "b" || name == "strong":
				write("</b>")
			case name == "i" || name == "em":
				write("</i>")
			case name == "u":
				write("</u>")
			case name == "a":
				write("</a>")
			case name == "td" || name == "th":
				write("    ")
				pendingSpace = false
			case headings[name]:
				write("</b>")
				lineBreak()
			case blockEnd[name]:
				lineBreak()
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			raw := tok.Data
			text := strings.Join(strings.Fields(raw), " ")
			if text == "" {
				if raw != "" {
					pendingSpace = true
				}
				continue
			}
			if unicode.IsSpace(rune(raw[0])) {
				pendingSpace = true
			}
			space()
			write(strings.NewReplacer("<", "(", ">", ")", "₹", "Rs.").Replace(text))
			pendingSpace = unicode.IsSpace(rune(raw[len(raw)-1]))
		}
	}

	result := out.String()
	for {
		trimmed := strings.TrimSuffix(strings.TrimRight(result, " "), "<br>")
		if trimmed == result {
			return result
		}
		result = trimmed
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return strings.ReplaceAll(a.Val, `"`, "")
		}
	}
	return ""
}
