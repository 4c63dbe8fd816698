package usecase

import "github.com/GabrielASF2/blue-lead-manager/internal/entity"

// LeadSummary alimenta os cards do painel. É calculado sobre o conjunto inteiro,
// nunca sobre o resultado da busca.
type LeadSummary struct {
	Total    int                       `json:"total"`
	ByStatus map[entity.LeadStatus]int `json:"by_status"`
	NoStatus int                       `json:"no_status"`
}

func SummarizeLeads(leads []entity.Lead) LeadSummary {
	sum := LeadSummary{
		Total:    len(leads),
		ByStatus: make(map[entity.LeadStatus]int, len(entity.LeadStatuses)),
	}
	for _, st := range entity.LeadStatuses {
		sum.ByStatus[st] = 0
	}

	for _, lead := range leads {
		if lead.Status == nil {
			sum.NoStatus++
			continue
		}
		if _, ok := sum.ByStatus[*lead.Status]; !ok {
			sum.NoStatus++
			continue
		}
		sum.ByStatus[*lead.Status]++
	}
	return sum
}
