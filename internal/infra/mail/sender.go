package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

const defaultFrom = "nao-responda@blueleads.app"

var leadCreatedTmpl = template.Must(template.New("lead_created").Parse(`<p>Olá,</p>
<p>Um novo lead foi cadastrado:</p>
<ul>
  <li><strong>Nome:</strong> {{.FullName}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  {{if .Phone}}<li><strong>Telefone:</strong> {{.Phone}}</li>{{end}}
  {{if .Status}}<li><strong>Status:</strong> {{.Status}}</li>{{end}}
  {{if .NextStep}}<li><strong>Próximo passo:</strong> {{.NextStep}}</li>{{end}}
</ul>`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = defaultFrom
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) SendLeadCreated(to string, lead entity.Lead) error {
	m, err := s.buildLeadCreated(to, lead)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func (s *EmailSender) buildLeadCreated(to string, lead entity.Lead) (*gomail.Message, error) {
	data := LeadCreatedEmailData{
		OwnerEmail: to,
		FullName:   lead.FullName,
		Email:      lead.Email,
	}
	if lead.Phone != nil {
		data.Phone = *lead.Phone
	}
	if lead.Status != nil {
		data.Status = lead.Status.Label()
	}
	if lead.NextStep != nil {
		data.NextStep = *lead.NextStep
	}

	var body bytes.Buffer
	if err := leadCreatedTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Novo lead: %s", lead.FullName))
	m.SetBody("text/html", body.String())
	return m, nil
}
