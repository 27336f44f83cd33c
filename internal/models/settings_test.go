package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func d(y int, m time.Month, day int) *datatypes.Date {
	dd := datatypes.Date(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
	return &dd
}

func TestDispatchClock(t *testing.T) {
	cases := []struct {
		hour     int
		minute   int
		meridiem string
		wantHour int
		wantMin  int
		wantErr  bool
	}{
		{10, 0, "AM", 10, 0, false},
		{10, 30, "am", 10, 30, false},
		{12, 0, "AM", 0, 0, false},
		{12, 15, "PM", 12, 15, false},
		{2, 30, "PM", 14, 30, false},
		{11, 59, "PM", 23, 59, false},
		{0, 0, "AM", 0, 0, true},
		{13, 0, "AM", 0, 0, true},
		{10, 60, "AM", 0, 0, true},
		{10, 0, "XX", 0, 0, true},
	}

	for _, tc := range cases {
		s := Settings{DispatchHour: tc.hour, DispatchMinute: tc.minute, DispatchMeridiem: tc.meridiem}
		hour, minute, err := s.DispatchClock()
		if tc.wantErr {
			assert.Error(t, err, "%d:%02d %s", tc.hour, tc.minute, tc.meridiem)
			continue
		}
		require.NoError(t, err, "%d:%02d %s", tc.hour, tc.minute, tc.meridiem)
		assert.Equal(t, tc.wantHour, hour)
		assert.Equal(t, tc.wantMin, minute)
	}
}

func TestSettingsAccessors(t *testing.T) {
	s := Settings{
		TaxFilingDue:         d(2024, time.June, 20),
		TaxFilingReminder1:   d(2024, time.June, 10),
		WithholdingReminder2: d(2024, time.June, 18),
		EmailEnabled:         true,
	}

	assert.Equal(t, s.TaxFilingDue, s.DueDate(DocTypeTaxFiling))
	assert.Nil(t, s.DueDate(DocTypeBankStatement))

	assert.Equal(t, s.TaxFilingReminder1, s.ReminderDate(DocTypeTaxFiling, Tier1))
	assert.Nil(t, s.ReminderDate(DocTypeTaxFiling, Tier2))
	assert.Equal(t, s.WithholdingReminder2, s.ReminderDate(DocTypeWithholding, Tier2))

	assert.True(t, s.ChannelEnabled(ChannelEmail))
	assert.False(t, s.ChannelEnabled(ChannelChat))
	assert.False(t, s.ChannelEnabled(Channel("fax")))
}
