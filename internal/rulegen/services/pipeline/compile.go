package pipeline

import (
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

// Compile emits one block rule per domain in set order. A set larger than
// maxRules fails with a *domain.CapacityError; nothing is truncated.
func Compile(set *domain.DomainSet, maxRules int) (domain.RuleDocument, error) {
	if set == nil {
		return domain.RuleDocument{}, nil
	}
	if set.Len() > maxRules {
		return nil, &domain.CapacityError{Count: set.Len(), Max: maxRules}
	}

	doc := make(domain.RuleDocument, 0, set.Len())
	i := 0
	for d := range set.All() {
		i++
		doc = append(doc, domain.Rule{
			ID:       i,
			Priority: domain.DefaultPriority,
			Action:   domain.RuleAction{Type: domain.ActionBlock},
			Condition: domain.RuleCondition{
				DomainPattern: domain.DomainPatternPrefix + d.String(),
				ResourceTypes: append([]string(nil), domain.BlockedResourceTypes...),
			},
		})
	}
	return doc, nil
}
