package usecase

import (
	"strings"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

// FilterLeads devolve, na ordem original, os leads cujo nome ou email contém term
// (sem diferenciar maiúsculas). O termo é usado literalmente, sem trim.
// Termo vazio devolve a própria lista.
func FilterLeads(leads []entity.Lead, term string) []entity.Lead {
	if term == "" {
		return leads
	}

	needle := strings.ToLower(term)
	filtered := make([]entity.Lead, 0, len(leads))
	for _, lead := range leads {
		if strings.Contains(strings.ToLower(lead.FullName), needle) ||
			strings.Contains(strings.ToLower(lead.Email), needle) {
			filtered = append(filtered, lead)
		}
	}
	return filtered
}
