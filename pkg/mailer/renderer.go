package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer turns markdown templates with YAML frontmatter into HTML and
// plain-text bodies wrapped in an HTML layout.
//
// Template bodies and subjects are text/template documents executed with the
// caller's data, then converted from markdown. Raw HTML in the markdown is
// not rendered, so interpolated user input cannot inject markup.
type Renderer struct {
	fsys      fs.FS
	md        goldmark.Markdown
	layoutDir string

	mu        sync.RWMutex
	templates map[string]*parsedTemplate
	layouts   map[string]*template.Template
}

type parsedTemplate struct {
	metadata map[string]any
	subject  *texttemplate.Template
	body     *texttemplate.Template
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLayoutDir sets the directory layouts are read from. Default: "layouts".
func WithLayoutDir(dir string) RendererOption {
	return func(r *Renderer) {
		if dir != "" {
			r.layoutDir = dir
		}
	}
}

// NewRenderer creates a Renderer reading templates from fsys.
func NewRenderer(fsys fs.FS, opts ...RendererOption) *Renderer {
	r := &Renderer{
		fsys:      fsys,
		layoutDir: "layouts",
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		templates: make(map[string]*parsedTemplate),
		layouts:   make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderResult is a rendered message.
type RenderResult struct {
	Metadata map[string]any
	Subject  string // rendered "subject" frontmatter, empty when absent
	HTML     string
	Text     string // executed markdown before HTML conversion
}

// Render executes templateName with data and wraps it in layout. A "layout"
// frontmatter entry overrides the layout argument.
func (r *Renderer) Render(layout, templateName string, data any) (*RenderResult, error) {
	tmpl, err := r.template(templateName)
	if err != nil {
		return nil, err
	}

	var md bytes.Buffer
	if err := tmpl.body.Execute(&md, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, templateName, err)
	}

	var subject strings.Builder
	if tmpl.subject != nil {
		if err := tmpl.subject.Execute(&subject, data); err != nil {
			return nil, fmt.Errorf("%w: %s subject: %v", ErrRenderFailed, templateName, err)
		}
	}

	var content bytes.Buffer
	if err := r.md.Convert(md.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, templateName, err)
	}

	if l, ok := tmpl.metadata["layout"].(string); ok && l != "" {
		layout = l
	}
	lt, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := lt.Execute(&out, map[string]any{
		"Content":  template.HTML(content.String()), //nolint:gosec // goldmark output with raw HTML disabled
		"Subject":  subject.String(),
		"Metadata": tmpl.metadata,
	}); err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: tmpl.metadata,
		Subject:  strings.TrimSpace(subject.String()),
		HTML:     out.String(),
		Text:     md.String(),
	}, nil
}

func (r *Renderer) template(name string) (*parsedTemplate, error) {
	return cached(&r.mu, r.templates, name, func() (*parsedTemplate, error) {
		content, err := fs.ReadFile(r.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
		}
		parsed, err := ParseTemplate(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		body, err := texttemplate.New(name).Parse(parsed.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
		}
		pt := &parsedTemplate{metadata: parsed.Metadata, body: body}

		subject, ok := parsed.String("subject")
		if !ok {
			subject, ok = parsed.String("Subject")
		}
		if ok {
			if pt.subject, err = texttemplate.New(name + ":subject").Parse(subject); err != nil {
				return nil, fmt.Errorf("%w: %s subject: %v", ErrRenderFailed, name, err)
			}
		}
		return pt, nil
	})
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	return cached(&r.mu, r.layouts, name, func() (*template.Template, error) {
		content, err := fs.ReadFile(r.fsys, path.Join(r.layoutDir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
		}
		t, err := template.New(name).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, name, err)
		}
		return t, nil
	})
}

// cached returns m[key], parsing and storing it on first use. Parsed
// structures are shared; rendered output never is.
func cached[T any](mu *sync.RWMutex, m map[string]T, key string, parse func() (T, error)) (T, error) {
	mu.RLock()
	v, ok := m[key]
	mu.RUnlock()
	if ok {
		return v, nil
	}

	mu.Lock()
	defer mu.Unlock()
	if v, ok := m[key]; ok {
		return v, nil
	}
	v, err := parse()
	if err != nil {
		return v, err
	}
	m[key] = v
	return v, nil
}
