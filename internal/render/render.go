// Package render turns text block content into sanitized inline HTML.
package render

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/the-showcase/internal/cache"
	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/theme"
	"github.com/debemdeboas/the-showcase/internal/util"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmarkdown/mmark/v2/mparser"
	"github.com/rs/zerolog"
)

var renderLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// chroma emits class-based spans
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// HighlightCode renders a code span with chroma, guessing the language when
// none is given.
func HighlightCode(code, language, highlightTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	// Nested keeps chroma from appending a newline to the span.
	iterator, err := lexer.Tokenise(&chroma.TokeniseOptions{State: "root", Nested: true}, code)
	if err != nil {
		return "<code>" + template.HTMLEscapeString(code) + "</code>"
	}

	var buf strings.Builder
	if err := theme.GetInlineFormatter().Format(&buf, styles.Get(highlightTheme), iterator); err != nil {
		return "<code>" + template.HTMLEscapeString(code) + "</code>"
	}
	return buf.String()
}

// inlineHook prints raw HTML as the text the operator typed and highlights
// code spans.
func inlineHook(highlightTheme string) md_html.RenderNodeFunc {
	return func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		switch n := node.(type) {
		case *ast.HTMLSpan:
			md_html.EscapeHTML(w, n.Literal)
			return ast.GoToNext, true
		case *ast.Code:
			io.WriteString(w, HighlightCode(string(n.Literal), "", highlightTheme))
			return ast.GoToNext, true
		}
		return ast.GoToNext, false
	}
}

func newInlineParser() *parser.Parser {
	renderer := config.RendererClassic
	if config.AppConfig != nil {
		renderer = config.AppConfig.Content.Renderer
	}

	switch renderer {
	case config.RendererMmark:
		return parser.NewWithExtensions((mparser.Extensions | parser.NoIntraEmphasis) &^ parser.Includes)
	default:
		return parser.NewWithExtensions(
			parser.Autolink | parser.Strikethrough | parser.SuperSubscript |
				parser.NoIntraEmphasis | parser.NonBlockingSpace,
		)
	}
}

// Inline renders md as the inside of a single paragraph. Only span-level
// markdown applies: emphasis, links, code spans. Block syntax such as
// headings, lists and blank lines stays literal text. The result is not
// sanitized.
func Inline(md []byte, highlightTheme string) []byte {
	para := &ast.Paragraph{}
	newInlineParser().Inline(para, markdown.NormalizeNewlines(md))

	r := md_html.NewRenderer(md_html.RendererOptions{
		Flags:          md_html.CommonFlags | md_html.HrefTargetBlank,
		RenderNodeHook: inlineHook(highlightTheme),
	})

	var buf bytes.Buffer
	for _, child := range para.Children {
		ast.WalkFunc(child, func(node ast.Node, entering bool) ast.WalkStatus {
			return r.RenderNode(&buf, node, entering)
		})
	}
	return buf.Bytes()
}

func Sanitize(html []byte) []byte {
	return policy.SanitizeBytes(html)
}

// Text renders a text block's content for viewing, as the inside of its
// paragraph. Results are cached per block and syntax theme.
func Text(id model.BlockID, content, highlightTheme string) template.HTML {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	hash := util.ContentHashString(content)
	return cache.RenderedText(string(id), hash, highlightTheme, func() template.HTML {
		renderLogger.Debug().Str("blockID", string(id)).Str("contentHash", hash).Str("highlightTheme", highlightTheme).Msg("Rendering text block")
		out := bytes.TrimSpace(Sanitize(Inline([]byte(content), highlightTheme)))
		return template.HTML(out)
	})
}
