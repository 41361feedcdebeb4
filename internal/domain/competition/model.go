package competition

import (
	"strings"
	"time"
)

// Type tags the metric a competition is scored on.
type Type string

const (
	TypeWeightLoss  Type = "weight_loss"
	TypeWeightGain  Type = "weight_gain"
	TypeBodyFatLoss Type = "body_fat_loss"
	TypeMuscleGain  Type = "muscle_gain"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
)

// Competition is a time-boxed event participants join and are ranked within.
type Competition struct {
	ID           string
	Name         string
	Type         Type
	Status       Status
	ActivityType string
	DurationDays int
	StartDate    *time.Time
	EndDate      *time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsWeightBased reports whether baselines come from weight entries rather
// than activity counters.
func (c Competition) IsWeightBased() bool {
	switch c.Type {
	case TypeWeightLoss, TypeWeightGain, TypeBodyFatLoss, TypeMuscleGain:
		return strings.TrimSpace(c.ActivityType) == "" || strings.EqualFold(c.ActivityType, "weight")
	default:
		return false
	}
}

func ParseType(v string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(v))) {
	case TypeWeightLoss:
		return TypeWeightLoss, true
	case TypeWeightGain:
		return TypeWeightGain, true
	case TypeBodyFatLoss:
		return TypeBodyFatLoss, true
	case TypeMuscleGain:
		return TypeMuscleGain, true
	default:
		return "", false
	}
}
