package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"volunteerhub-workers/internal/models"
)

// ==========================
// Location Scorer
// ==========================

func TestScoreLocation(t *testing.T) {
	event := newTestEvent()

	tests := []struct {
		name      string
		volunteer *models.VolunteerProfile
		eventLoc  *models.GeoPoint
		expected  int
	}{
		{
			name:      "volunteer missing coordinates is neutral",
			volunteer: &models.VolunteerProfile{},
			eventLoc:  event.Location,
			expected:  50,
		},
		{
			name:      "event missing coordinates is neutral",
			volunteer: newTestVolunteer(),
			eventLoc:  nil,
			expected:  50,
		},
		{
			name:      "nearby with proximity bonus clamps to 100",
			volunteer: newTestVolunteer(),
			eventLoc:  event.Location,
			expected:  100, // 100 - 2*~1 + 10, clamped
		},
		{
			name: "moderate distance without bonus",
			volunteer: &models.VolunteerProfile{
				// ~20 km north of the event
				Location: &models.GeoPoint{Latitude: 29.9320, Longitude: -95.3720},
			},
			eventLoc: event.Location,
			expected: 60, // 100 - 2*20
		},
		{
			name: "over max-distance preference takes the penalty",
			volunteer: &models.VolunteerProfile{
				Location: &models.GeoPoint{Latitude: 29.9320, Longitude: -95.3720},
				Preferences: models.VolunteerPreferences{
					MaxDistanceKm: floatPtr(10),
				},
			},
			eventLoc: event.Location,
			expected: 30, // 100 - 2*20 - 30
		},
		{
			name: "far away clamps to zero",
			volunteer: &models.VolunteerProfile{
				Location: &models.GeoPoint{Latitude: 40.7128, Longitude: -74.0060},
			},
			eventLoc: event.Location,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := *event
			e.Location = tt.eventLoc
			assert.Equal(t, tt.expected, scoreLocation(tt.volunteer, &e))
		})
	}
}

// ==========================
// Skills Scorer
// ==========================

func TestScoreSkills_NoRequirementsIsAlwaysFull(t *testing.T) {
	event := newTestEvent()
	event.SkillRequirements = nil

	assert.Equal(t, 100, scoreSkills(newTestVolunteer(), event))
	assert.Equal(t, 100, scoreSkills(&models.VolunteerProfile{}, event))
}

func TestScoreSkills_NoSkillsWithRequirementsIsZero(t *testing.T) {
	assert.Equal(t, 0, scoreSkills(&models.VolunteerProfile{ID: "v"}, newTestEvent()))
}

func TestScoreSkills(t *testing.T) {
	tests := []struct {
		name         string
		skills       []models.VolunteerSkill
		requirements []models.SkillRequirement
		expected     int
	}{
		{
			name:   "exact match on single required skill earns the bonus",
			skills: []models.VolunteerSkill{{SkillID: "first-aid-cpr", Proficiency: "ADVANCED"}},
			requirements: []models.SkillRequirement{
				{SkillID: "first-aid-cpr", MinProficiency: "ADVANCED", IsRequired: true},
			},
			expected: 100, // (6+10)/(6+10)
		},
		{
			name:   "lowercase legacy proficiency parses the same",
			skills: []models.VolunteerSkill{{SkillID: "first-aid-cpr", Proficiency: "advanced"}},
			requirements: []models.SkillRequirement{
				{SkillID: "first-aid-cpr", MinProficiency: "advanced", IsRequired: true},
			},
			expected: 100,
		},
		{
			name:   "under-qualified on required skill",
			skills: []models.VolunteerSkill{{SkillID: "first-aid-cpr", Proficiency: "BEGINNER"}},
			requirements: []models.SkillRequirement{
				{SkillID: "first-aid-cpr", MinProficiency: "ADVANCED", IsRequired: true},
			},
			// ratio 1/3 -> score 2 of max 6, plus bonus 10/10: (2+10)/(6+10)
			expected: 75,
		},
		{
			name:   "over-qualification ratio caps at 1.5",
			skills: []models.VolunteerSkill{{SkillID: "setup", Proficiency: "EXPERT"}},
			requirements: []models.SkillRequirement{
				{SkillID: "setup", MinProficiency: "BEGINNER", IsRequired: false},
			},
			// optional: ratio min(4/1, 1.5)=1.5 -> 1.5 of max 1 -> capped at 100
			expected: 100,
		},
		{
			name:   "missing optional skill earns partial credit",
			skills: []models.VolunteerSkill{{SkillID: "other", Proficiency: "EXPERT"}},
			requirements: []models.SkillRequirement{
				{SkillID: "logistics", MinProficiency: "INTERMEDIATE", IsRequired: false},
			},
			// 2*1*0.3 = 0.6 of max 2
			expected: 30,
		},
		{
			name:   "missing required skill contributes nothing",
			skills: []models.VolunteerSkill{{SkillID: "other", Proficiency: "EXPERT"}},
			requirements: []models.SkillRequirement{
				{SkillID: "first-aid-cpr", MinProficiency: "ADVANCED", IsRequired: true},
			},
			expected: 0,
		},
		{
			name: "mixed required and optional",
			skills: []models.VolunteerSkill{
				{SkillID: "first-aid-cpr", Proficiency: "ADVANCED"},
			},
			requirements: []models.SkillRequirement{
				{SkillID: "first-aid-cpr", MinProficiency: "ADVANCED", IsRequired: true},
				{SkillID: "logistics", MinProficiency: "INTERMEDIATE", IsRequired: false},
			},
			// required: 6 of 6; optional missing: 0.6 of 2; bonus 10/10
			// (6 + 0.6 + 10) / (6 + 2 + 10) = 16.6/18 = 92.2
			expected: 92,
		},
		{
			name:   "unrecognized proficiency falls back to rank 1",
			skills: []models.VolunteerSkill{{SkillID: "first-aid-cpr", Proficiency: "WIZARD"}},
			requirements: []models.SkillRequirement{
				{SkillID: "first-aid-cpr", MinProficiency: "NONSENSE", IsRequired: true},
			},
			// both parse to rank 1: ratio 1, 2 of 2, bonus: 12/12
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			volunteer := &models.VolunteerProfile{ID: "v", Skills: tt.skills}
			event := newTestEvent()
			event.SkillRequirements = tt.requirements
			assert.Equal(t, tt.expected, scoreSkills(volunteer, event))
		})
	}
}

// ==========================
// Availability Scorer
// ==========================

func TestScoreAvailability(t *testing.T) {
	mondayEvent := newTestEvent() // Monday 09:00-17:00

	tests := []struct {
		name      string
		volunteer *models.VolunteerProfile
		expected  int
	}{
		{
			name:      "no availability data scores a flat 30",
			volunteer: &models.VolunteerProfile{ID: "v"},
			expected:  30,
		},
		{
			name: "no covering slot scores zero",
			volunteer: &models.VolunteerProfile{
				Availability: []models.AvailabilitySlot{
					{DayOfWeek: "Tuesday", StartTime: "09:00", EndTime: "17:00", IsRecurring: true},
				},
			},
			expected: 0,
		},
		{
			name: "full overlap on recurring day",
			volunteer: &models.VolunteerProfile{
				Availability: []models.AvailabilitySlot{
					{DayOfWeek: "Monday", StartTime: "09:00", EndTime: "17:00", IsRecurring: true},
				},
			},
			expected: 100,
		},
		{
			name: "half overlap",
			volunteer: &models.VolunteerProfile{
				Availability: []models.AvailabilitySlot{
					{DayOfWeek: "Monday", StartTime: "13:00", EndTime: "17:00", IsRecurring: true},
				},
			},
			expected: 50,
		},
		{
			name: "specific date slot covers a non-recurring match",
			volunteer: &models.VolunteerProfile{
				Availability: []models.AvailabilitySlot{
					{SpecificDate: "2026-01-05", StartTime: "09:00", EndTime: "17:00"},
				},
			},
			expected: 100,
		},
		{
			name: "specific date on the wrong day does not cover",
			volunteer: &models.VolunteerProfile{
				Availability: []models.AvailabilitySlot{
					{SpecificDate: "2026-01-06", StartTime: "09:00", EndTime: "17:00"},
				},
			},
			expected: 0,
		},
		{
			name: "best overlap wins across covering slots",
			volunteer: &models.VolunteerProfile{
				Availability: []models.AvailabilitySlot{
					{DayOfWeek: "Monday", StartTime: "09:00", EndTime: "11:00", IsRecurring: true},
					{DayOfWeek: "monday", StartTime: "09:00", EndTime: "15:00", IsRecurring: true},
				},
			},
			expected: 75, // 6 of 8 hours
		},
		{
			name: "preferred time of day adds fifteen",
			volunteer: &models.VolunteerProfile{
				Availability: []models.AvailabilitySlot{
					{DayOfWeek: "Monday", StartTime: "13:00", EndTime: "17:00", IsRecurring: true},
				},
				Preferences: models.VolunteerPreferences{
					PreferredTimeSlots: []string{"morning"},
				},
			},
			expected: 65, // 50 + 15, event starts at 09:00
		},
		{
			name: "preference ceiling is 100",
			volunteer: &models.VolunteerProfile{
				Availability: []models.AvailabilitySlot{
					{DayOfWeek: "Monday", StartTime: "09:00", EndTime: "17:00", IsRecurring: true},
				},
				Preferences: models.VolunteerPreferences{
					PreferredTimeSlots: []string{"morning"},
				},
			},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scoreAvailability(tt.volunteer, mondayEvent))
		})
	}
}

func TestScoreAvailability_WeekdaysOnlyPenaltyOnWeekend(t *testing.T) {
	saturdayEvent := newTestEvent()
	saturdayEvent.StartTime = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC) // Saturday
	saturdayEvent.EndTime = time.Date(2026, 1, 10, 17, 0, 0, 0, time.UTC)

	volunteer := &models.VolunteerProfile{
		Availability: []models.AvailabilitySlot{
			{DayOfWeek: "Saturday", StartTime: "09:00", EndTime: "17:00", IsRecurring: true},
		},
		Preferences: models.VolunteerPreferences{WeekdaysOnly: true},
	}
	assert.Equal(t, 70, scoreAvailability(volunteer, saturdayEvent))

	// Penalty floors at zero.
	volunteer.Availability[0].StartTime = "15:00" // 2 of 8 hours = 25
	assert.Equal(t, 0, scoreAvailability(volunteer, saturdayEvent))
}

// ==========================
// Preferences Scorer
// ==========================

func TestScorePreferences(t *testing.T) {
	tests := []struct {
		name     string
		prefs    models.VolunteerPreferences
		category string
		urgency  string
		expected int
	}{
		{
			name:     "no preferences at all is neutral",
			prefs:    models.VolunteerPreferences{},
			category: "healthcare",
			urgency:  models.UrgencyHigh,
			expected: 50,
		},
		{
			name:     "matching cause with high urgency",
			prefs:    models.VolunteerPreferences{PreferredCauses: []string{"healthcare"}},
			category: "healthcare",
			urgency:  models.UrgencyHigh,
			expected: 85,
		},
		{
			name:     "mismatched cause",
			prefs:    models.VolunteerPreferences{PreferredCauses: []string{"environment"}},
			category: "healthcare",
			urgency:  models.UrgencyMedium,
			expected: 35, // 50 - 15, MEDIUM is neutral
		},
		{
			name:     "critical urgency maps to the urgent bump",
			prefs:    models.VolunteerPreferences{PreferredCauses: []string{"healthcare"}},
			category: "healthcare",
			urgency:  models.UrgencyCritical,
			expected: 90,
		},
		{
			name:     "low urgency subtracts",
			prefs:    models.VolunteerPreferences{PreferredCauses: []string{"healthcare"}},
			category: "healthcare",
			urgency:  models.UrgencyLow,
			expected: 75,
		},
		{
			name:     "legacy lowercase urgency",
			prefs:    models.VolunteerPreferences{PreferredCauses: []string{"healthcare"}},
			category: "healthcare",
			urgency:  "urgent",
			expected: 90,
		},
		{
			name:     "unknown urgency stays neutral",
			prefs:    models.VolunteerPreferences{PreferredCauses: []string{"healthcare"}},
			category: "healthcare",
			urgency:  "WHENEVER",
			expected: 80,
		},
		{
			name:     "case-insensitive cause match",
			prefs:    models.VolunteerPreferences{PreferredCauses: []string{"Healthcare"}},
			category: "HEALTHCARE",
			urgency:  models.UrgencyMedium,
			expected: 80,
		},
		{
			name:     "other preferences without causes stay at base",
			prefs:    models.VolunteerPreferences{WeekdaysOnly: true},
			category: "healthcare",
			urgency:  models.UrgencyHigh,
			expected: 55, // 50 + 5, no cause adjustment
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			volunteer := &models.VolunteerProfile{ID: "v", Preferences: tt.prefs}
			event := newTestEvent()
			event.Category = tt.category
			event.Urgency = tt.urgency
			assert.Equal(t, tt.expected, scorePreferences(volunteer, event))
		})
	}
}

// ==========================
// Reliability Scorer
// ==========================

func TestScoreReliability(t *testing.T) {
	tests := []struct {
		name      string
		volunteer *models.VolunteerProfile
		expected  int
	}{
		{
			name:      "bare profile gets the base",
			volunteer: &models.VolunteerProfile{ID: "v"},
			expected:  75,
		},
		{
			name: "complete contact info",
			volunteer: &models.VolunteerProfile{
				FirstName: "A", LastName: "B", Phone: "+1", Address: "somewhere",
			},
			expected: 85,
		},
		{
			name: "everything clamps at 100",
			volunteer: &models.VolunteerProfile{
				FirstName: "A", LastName: "B", Phone: "+1", Address: "somewhere",
				Skills:       []models.VolunteerSkill{{SkillID: "s", Proficiency: "BEGINNER"}},
				Availability: []models.AvailabilitySlot{{DayOfWeek: "Monday", IsRecurring: true}},
				CreatedAt:    testNow.AddDate(-2, 0, 0),
			},
			expected: 100, // 75+10+10+5+10 = 110, clamped
		},
		{
			name: "young account misses the age bonus",
			volunteer: &models.VolunteerProfile{
				Skills:    []models.VolunteerSkill{{SkillID: "s", Proficiency: "BEGINNER"}},
				CreatedAt: testNow.AddDate(0, -3, 0),
			},
			expected: 85, // 75 + 10 skills
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scoreReliability(tt.volunteer, testNow))
		})
	}
}

func TestParseProficiency(t *testing.T) {
	tests := []struct {
		input    string
		expected ProficiencyLevel
	}{
		{"BEGINNER", ProficiencyBeginner},
		{"beginner", ProficiencyBeginner},
		{"Intermediate", ProficiencyIntermediate},
		{"ADVANCED", ProficiencyAdvanced},
		{"expert", ProficiencyExpert},
		{" EXPERT ", ProficiencyExpert},
		{"", ProficiencyBeginner},
		{"master", ProficiencyBeginner},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseProficiency(tt.input), "input %q", tt.input)
	}

	assert.True(t, ProficiencyBeginner < ProficiencyIntermediate)
	assert.True(t, ProficiencyIntermediate < ProficiencyAdvanced)
	assert.True(t, ProficiencyAdvanced < ProficiencyExpert)
}
