package sections

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

func richTextSanitizer() *bluemonday.Policy {
	richTextPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("p", "br", "strong", "em", "b", "i", "ul", "ol", "li", "blockquote", "code", "del")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		richTextPolicy = policy
	})
	return richTextPolicy
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
}

// richText converts a markdown prop to sanitised HTML. A single paragraph is
// unwrapped so inline props like quotes can sit inside their own element.
func (r *Renderer) richText(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("sections: markdown: %w", err)
	}
	cleaned := strings.TrimSpace(richTextSanitizer().Sanitize(buf.String()))
	if strings.Count(cleaned, "<p>") == 1 && strings.HasPrefix(cleaned, "<p>") && strings.HasSuffix(cleaned, "</p>") {
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "<p>"), "</p>")
	}
	return cleaned, nil
}
