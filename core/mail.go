package core

import (
	"bytes"
	"net/mail"
	texttmpl "text/template"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		Template     *texttmpl.Template
		TemplateData interface{}
		TextContent  string
	}

	// TemplateContext is the root data passed to email templates.
	TemplateContext struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render resolves the final TextContent from BodyStr or the template.
func (m *EmailMessage) Render(conf *Config) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.Template == nil {
		return nil
	}
	var buff bytes.Buffer
	err := m.Template.Execute(&buff, TemplateContext{
		FrontendBaseURL: conf.FrontendBaseURL,
		Data:            m.TemplateData,
	})
	if err != nil {
		return err
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.TextContent != "" }
