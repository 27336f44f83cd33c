package reminder

import (
	"testing"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupTasksMergesCoincidingTier(t *testing.T) {
	client := models.Client{ID: 1, Name: "Acme Traders"}
	due := []models.TierKey{
		{Type: models.DocTypeTaxFiling, Tier: models.Tier1},
		{Type: models.DocTypeBankStatement, Tier: models.Tier1},
	}
	eligible := map[models.TierKey][]models.Client{
		due[0]: {client},
		due[1]: {client},
	}

	tasks := GroupTasks(due, eligible, nil, "2024-06")
	require.Len(t, tasks, 1)
	assert.Equal(t, models.Tier1, tasks[0].Tier)
	assert.Equal(t, []models.DocumentType{models.DocTypeTaxFiling, models.DocTypeBankStatement}, tasks[0].Types)
	assert.Equal(t, "2024-06", tasks[0].Month)
}

func TestGroupTasksSplitsDifferentTiers(t *testing.T) {
	client := models.Client{ID: 1, Name: "Acme Traders"}
	due := []models.TierKey{
		{Type: models.DocTypeTaxFiling, Tier: models.Tier1},
		{Type: models.DocTypeBankStatement, Tier: models.Tier2},
	}
	eligible := map[models.TierKey][]models.Client{
		due[0]: {client},
		due[1]: {client},
	}

	tasks := GroupTasks(due, eligible, nil, "2024-06")
	require.Len(t, tasks, 2)
	assert.Equal(t, models.Tier1, tasks[0].Tier)
	assert.Equal(t, []models.DocumentType{models.DocTypeTaxFiling}, tasks[0].Types)
	assert.Equal(t, models.Tier2, tasks[1].Tier)
	assert.Equal(t, []models.DocumentType{models.DocTypeBankStatement}, tasks[1].Types)
}

func TestGroupTasksPerClientEligibility(t *testing.T) {
	a := models.Client{ID: 1, Name: "A"}
	b := models.Client{ID: 2, Name: "B"}
	due := []models.TierKey{
		{Type: models.DocTypeTaxFiling, Tier: models.Tier1},
		{Type: models.DocTypeWithholding, Tier: models.Tier1},
	}
	// A is behind on both, B only on the withholding statement
	eligible := map[models.TierKey][]models.Client{
		due[0]: {a},
		due[1]: {a, b},
	}

	tasks := GroupTasks(due, eligible, nil, "2024-06")
	require.Len(t, tasks, 2)
	assert.Equal(t, uint(1), tasks[0].Client.ID)
	assert.Len(t, tasks[0].Types, 2)
	assert.Equal(t, uint(2), tasks[1].Client.ID)
	assert.Equal(t, []models.DocumentType{models.DocTypeWithholding}, tasks[1].Types)
}

func TestGroupTasksClientOrderStable(t *testing.T) {
	due := []models.TierKey{{Type: models.DocTypeTaxFiling, Tier: models.Tier1}}
	eligible := map[models.TierKey][]models.Client{
		due[0]: {{ID: 9}, {ID: 2}, {ID: 5}},
	}

	tasks := GroupTasks(due, eligible, nil, "2024-06")
	require.Len(t, tasks, 3)
	assert.Equal(t, uint(2), tasks[0].Client.ID)
	assert.Equal(t, uint(5), tasks[1].Client.ID)
	assert.Equal(t, uint(9), tasks[2].Client.ID)
}

func TestGroupTasksEmptyDue(t *testing.T) {
	assert.Empty(t, GroupTasks(nil, nil, nil, "2024-06"))
}

func TestTaskDueDatePrecedence(t *testing.T) {
	s := &models.Settings{
		TaxFilingDue:     date(2024, time.June, 20),
		BankStatementDue: date(2024, time.June, 25),
		WithholdingDue:   date(2024, time.June, 15),
	}

	// Filing deadline wins whenever the filing is in the task
	d := taskDueDate([]models.DocumentType{models.DocTypeBankStatement, models.DocTypeTaxFiling}, s)
	require.NotNil(t, d)
	assert.Equal(t, 20, d.Day())

	// Without the filing, the withholding deadline is next
	d = taskDueDate([]models.DocumentType{models.DocTypeBankStatement, models.DocTypeWithholding}, s)
	require.NotNil(t, d)
	assert.Equal(t, 15, d.Day())
}

func TestTaskDueDateFallsBackAcrossTypes(t *testing.T) {
	// Bank statement has no deadline of its own; the filing deadline is
	// shown instead
	s := &models.Settings{TaxFilingDue: date(2024, time.June, 20)}
	d := taskDueDate([]models.DocumentType{models.DocTypeBankStatement}, s)
	require.NotNil(t, d)
	assert.Equal(t, 20, d.Day())

	assert.Nil(t, taskDueDate([]models.DocumentType{models.DocTypeBankStatement}, &models.Settings{}))
	assert.Nil(t, taskDueDate([]models.DocumentType{models.DocTypeBankStatement}, nil))
}
