package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

const (
	DefaultCountryCode  = "55"
	DefaultWhatsAppHost = "web.whatsapp.com"
)

// ContactLinks monta os links de contato rápido. Nenhum deles faz chamada de rede.
type ContactLinks struct {
	CountryCode  string
	WhatsAppHost string
}

func NewContactLinks(countryCode, whatsAppHost string) ContactLinks {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	if whatsAppHost == "" {
		whatsAppHost = DefaultWhatsAppHost
	}
	return ContactLinks{
		CountryCode:  digitsOnly(countryCode),
		WhatsAppHost: whatsAppHost,
	}
}

func (c ContactLinks) WhatsApp(lead entity.Lead) (string, error) {
	if lead.Phone == nil {
		return "", &MissingFieldError{Field: "phone"}
	}
	phone := digitsOnly(*lead.Phone)
	if phone == "" {
		return "", &MissingFieldError{Field: "phone"}
	}

	text := fmt.Sprintf("Olá %s, tudo bem?", lead.FullName)
	return fmt.Sprintf("https://%s/send?phone=%s%s&text=%s",
		c.WhatsAppHost, c.CountryCode, phone, encodeComponent(text)), nil
}

func (c ContactLinks) Mailto(lead entity.Lead) (string, error) {
	if strings.TrimSpace(lead.Email) == "" {
		return "", &MissingFieldError{Field: "email"}
	}

	subject := fmt.Sprintf("Contato - %s", lead.FullName)
	body := fmt.Sprintf("Olá %s,\n\nEspero que esteja bem!\n\n", lead.FullName)
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		lead.Email, encodeComponent(subject), encodeComponent(body)), nil
}

// encodeComponent escapa como um componente de URI: espaço vira %20, não +,
// já que clientes de email não decodificam + em links mailto.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
