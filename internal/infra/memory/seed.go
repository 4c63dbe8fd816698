package memory

import (
	"time"

	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
)

// DemoLeads são os leads exibidos no painel quando nenhum backend está configurado.
func DemoLeads() []entity.Lead {
	return []entity.Lead{
		demoLead("1", "João Silva Santos", "joao.silva@email.com", "11999887766", entity.StatusNew, "", "", "2024-01-15"),
		demoLead("2", "Maria Oliveira Costa", "maria.oliveira@email.com", "11888776655", entity.StatusInContact,
			"Interessada em nossos serviços premium", "", "2024-01-14"),
		demoLead("3", "Pedro Rodrigues Lima", "pedro.lima@email.com", "11777665544", entity.StatusConverted,
			"", "Agendar reunião de onboarding", "2024-01-13"),
		demoLead("4", "Ana Carolina Ferreira", "ana.ferreira@email.com", "11666554433", entity.StatusNew, "", "", "2024-01-12"),
		demoLead("5", "Carlos Eduardo Souza", "carlos.souza@email.com", "11555443322", entity.StatusInContact,
			"Precisa de mais informações sobre preços", "", "2024-01-11"),
	}
}

func demoLead(id, name, email, phone string, status entity.LeadStatus, notes, nextStep, created string) entity.Lead {
	l := entity.Lead{
		ID:       id,
		FullName: name,
		Email:    email,
		Phone:    &phone,
		Status:   &status,
	}
	if notes != "" {
		l.Notes = &notes
	}
	if nextStep != "" {
		l.NextStep = &nextStep
	}
	if t, err := time.Parse("2006-01-02", created); err == nil {
		l.CreatedAt = &t
	}
	return l
}
