package domain

// EnhancedUserProfile is derived from the onboarding snapshot and used only
// as generation-prompt conditioning. It is never a source of truth.
type EnhancedUserProfile struct {
	TrainingAgeYears float64 `json:"trainingAgeYears"`
	RecoveryCapacity float64 `json:"recoveryCapacity"` // multiplier around 1.0
	StressLevel      float64 `json:"stressLevel"`      // multiplier around 1.0
	VolumeTolerance  float64 `json:"volumeTolerance"`  // multiplier around 1.0

	RPEProfile      RPEProfile      `json:"rpeProfile"`
	RecoveryProfile RecoveryProfile `json:"recoveryProfile"`
}

// RPEProfile sets the target effort window for prescribed work.
type RPEProfile struct {
	TargetRPELow  float64 `json:"targetRpeLow"`
	TargetRPEHigh float64 `json:"targetRpeHigh"`
	Autoregulate  bool    `json:"autoregulate"`
}

// RecoveryProfile summarizes recovery context for the generator.
type RecoveryProfile struct {
	SleepHours        float64 `json:"sleepHours"`
	RestDayMinimum    int     `json:"restDayMinimum"`
	DeloadEveryNWeeks int     `json:"deloadEveryNWeeks"`
}

// VolumeLandmark holds the weekly set-count landmarks for one muscle group.
// Invariant: MEV <= MAV <= MRV.
type VolumeLandmark struct {
	MEV int `json:"mev"` // minimum effective volume
	MAV int `json:"mav"` // maximum adaptive volume
	MRV int `json:"mrv"` // maximum recoverable volume
}

// VolumeLandmarks maps muscle-group name to its landmarks.
type VolumeLandmarks map[string]VolumeLandmark

// WeakPointAnalysis holds the computed strength ratios and the weak-point
// labels derived from them.
type WeakPointAnalysis struct {
	BenchToDeadlift float64  `json:"benchToDeadlift"`
	SquatToDeadlift float64  `json:"squatToDeadlift"`
	PressToBench    float64  `json:"pressToBench"`
	WeakPoints      []string `json:"weakPoints"`
}
