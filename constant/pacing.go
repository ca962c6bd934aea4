package constant

import "time"

// Playback pacing, seconds in the config file
const (
	// ToneDuration is how long each sequence signal sounds
	ToneDuration = 400 * time.Millisecond

	// ToneGap separates consecutive sequence signals
	ToneGap = 150 * time.Millisecond

	// PressDuration is the confirmation tone and flash length for a player press
	PressDuration = 250 * time.Millisecond

	// GameOverDelay runs from a mismatching press to the GameOver phase
	GameOverDelay = 300 * time.Millisecond

	// RoundDelay runs from a completed round to the next playback
	RoundDelay = 700 * time.Millisecond

	// PlaybackSettle is added after the last signal before input opens
	PlaybackSettle = 200 * time.Millisecond

	// PlaybackLeadIn offsets the first emission from scheduling time
	PlaybackLeadIn = 100 * time.Millisecond

	// FlashTrim ends each visual pulse ahead of its tone
	FlashTrim = 30 * time.Millisecond
)

// Runner
const (
	// CommandQueueSize bounds buffered player commands
	CommandQueueSize = 32

	// IdleWait is the runner sleep when nothing is scheduled
	IdleWait = time.Second
)
