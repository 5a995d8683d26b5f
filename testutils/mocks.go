package testutils

// MockMailService records outbound template mail instead of sending it.
type MockMailService struct {
	Err   error
	Calls []MailCall
}

type MailCall struct {
	Template string
	To       []string
	Subject  string
	Data     map[string]any
}

func (m *MockMailService) SendTemplate(templateName string, to []string, subject string, data map[string]any) error {
	m.Calls = append(m.Calls, MailCall{
		Template: templateName,
		To:       to,
		Subject:  subject,
		Data:     data,
	})
	return m.Err
}
