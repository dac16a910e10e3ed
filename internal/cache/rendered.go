package cache

import (
	"html/template"
	"strings"
)

type renderedText struct {
	hash string
	html template.HTML
}

// Rendered text blocks keyed by block id and syntax theme. Each entry holds
// the content hash it was rendered from, so an edit replaces the entry
// instead of adding one.
var renderedTextCache = NewCache[string, renderedText]()

func renderedKey(blockID, syntaxTheme string) string {
	return blockID + "|" + syntaxTheme
}

func GetRenderedText(blockID, contentHash, syntaxTheme string) (template.HTML, bool) {
	e, ok := renderedTextCache.Get(renderedKey(blockID, syntaxTheme))
	if !ok || e.hash != contentHash {
		return "", false
	}
	return e.html, true
}

func SetRenderedText(blockID, contentHash, syntaxTheme string, html template.HTML) {
	renderedTextCache.Set(renderedKey(blockID, syntaxTheme), renderedText{hash: contentHash, html: html})
}

// RenderedText returns the block's cached HTML while its content hash still
// matches, and renders and replaces the entry otherwise.
func RenderedText(blockID, contentHash, syntaxTheme string, render func() template.HTML) template.HTML {
	if html, ok := GetRenderedText(blockID, contentHash, syntaxTheme); ok {
		return html
	}
	return renderedTextCache.Update(renderedKey(blockID, syntaxTheme), func(e renderedText, ok bool) renderedText {
		if ok && e.hash == contentHash {
			return e
		}
		return renderedText{hash: contentHash, html: render()}
	}).html
}

// ForgetRenderedText drops every theme's entry for a deleted block.
func ForgetRenderedText(blockID string) {
	prefix := blockID + "|"
	renderedTextCache.DeleteFunc(func(k string) bool {
		return strings.HasPrefix(k, prefix)
	})
}

func RenderedTextLen() int {
	return renderedTextCache.Len()
}

func ClearRenderedTextCache() {
	renderedTextCache.Clear()
}
