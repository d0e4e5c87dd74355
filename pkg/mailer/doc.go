// Package mailer renders markdown email templates and sends them through a
// pluggable provider.
//
// A Sender delivers prepared emails, a Renderer turns markdown templates with
// YAML frontmatter into HTML wrapped in a layout, and a Mailer ties the two
// together.
//
// # Usage
//
//	sender := resend.New(resend.Config{
//		APIKey:      os.Getenv("RESEND_API_KEY"),
//		SenderEmail: "hello@lightside.games",
//		SenderName:  "Light Side",
//	})
//	m := mailer.New(sender, mailer.NewRenderer(templates.FS), mailer.Config{
//		FallbackSubject: "Light Side",
//		DefaultLayout:   "base.html",
//	})
//
//	err := m.Send(ctx, mailer.SendParams{
//		To:       []string{"press@lightside.games"},
//		Template: "contact.md",
//		Data:     form,
//		ReplyTo:  form.Email,
//	})
//
// # Templates
//
// Templates are markdown files. The optional frontmatter may set "subject"
// (a text/template executed with the same data) and "layout":
//
//	---
//	subject: Contact form: {{.Topic}}
//	layout: base.html
//	---
//	**From:** {{.Name}} <{{.Email}}>
//
//	{{.Message}}
//
// Layouts live under "layouts/" and receive .Content (the rendered HTML),
// .Subject and .Metadata. Raw HTML inside markdown is dropped by goldmark,
// so interpolated values cannot inject markup.
//
// Parsed templates and layouts are cached; Renderer and Mailer are safe for
// concurrent use.
package mailer
