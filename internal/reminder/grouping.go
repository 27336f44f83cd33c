package reminder

import (
	"sort"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"
)

// Task is one composed unit of outbound work: one client, one tier, one
// or more document types whose tier dates coincide today.
type Task struct {
	Client models.Client
	Month  string
	Tier   models.Tier
	Types  []models.DocumentType
	// DueDate drives the urgency wording; nil when no due date is
	// configured for any relevant type.
	DueDate *time.Time
}

// GroupTasks merges each client's due-and-eligible (type, tier) pairs
// into dispatch tasks. Types whose tiers coincide for today share one
// task; a type due on a different tier the same day becomes its own
// task. This replaces the source system's hardcoded enumeration of
// every 1-, 2- and 3-type combination.
func GroupTasks(due []models.TierKey, eligible map[models.TierKey][]models.Client, s *models.Settings, month string) []Task {
	type clientPairs struct {
		client models.Client
		byTier map[models.Tier][]models.DocumentType
	}

	perClient := make(map[uint]*clientPairs)
	var order []uint

	for _, key := range due {
		for _, client := range eligible[key] {
			cp, ok := perClient[client.ID]
			if !ok {
				cp = &clientPairs{client: client, byTier: make(map[models.Tier][]models.DocumentType)}
				perClient[client.ID] = cp
				order = append(order, client.ID)
			}
			cp.byTier[key.Tier] = append(cp.byTier[key.Tier], key.Type)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	var tasks []Task
	for _, id := range order {
		cp := perClient[id]
		for _, tier := range models.AllTiers {
			types := cp.byTier[tier]
			if len(types) == 0 {
				continue
			}
			sortTypes(types)
			tasks = append(tasks, Task{
				Client:  cp.client,
				Month:   month,
				Tier:    tier,
				Types:   types,
				DueDate: taskDueDate(types, s),
			})
		}
	}
	return tasks
}

// sortTypes orders types by their fixed display order
func sortTypes(types []models.DocumentType) {
	rank := make(map[models.DocumentType]int, len(models.AllDocumentTypes))
	for i, t := range models.AllDocumentTypes {
		rank[t] = i
	}
	sort.Slice(types, func(i, j int) bool { return rank[types[i]] < rank[types[j]] })
}

// dueDatePrecedence is the order in which a task's types are consulted
// for the due date shown in the message. The bank statement has no
// deadline of its own in practice, so the filing deadline wins, then
// the withholding one.
var dueDatePrecedence = []models.DocumentType{
	models.DocTypeTaxFiling,
	models.DocTypeWithholding,
	models.DocTypeBankStatement,
}

func taskDueDate(types []models.DocumentType, s *models.Settings) *time.Time {
	if s == nil {
		return nil
	}
	inTask := make(map[models.DocumentType]bool, len(types))
	for _, t := range types {
		inTask[t] = true
	}
	for _, t := range dueDatePrecedence {
		if inTask[t] {
			if d := s.DueDate(t); d != nil {
				dd := time.Time(*d)
				return &dd
			}
		}
	}
	// Fallback for tasks whose own types carry no due date
	for _, t := range dueDatePrecedence {
		if d := s.DueDate(t); d != nil {
			dd := time.Time(*d)
			return &dd
		}
	}
	return nil
}
