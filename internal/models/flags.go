package models

// Persisted local state keys. Names match what the web client stored in
// localStorage so existing snapshots stay readable.
const (
	FlagHasSeenLanding    = "hasSeenLanding"
	FlagHasDoneInitiation = "hasDoneInitiation"
	FlagWelcomeShown      = "welcomeShown"
	FlagAffirmationDate   = "affirmationDate"
	FlagDailyAffirmation  = "dailyAffirmation"
	FlagLastRewardDate    = "lastRewardDate"
	FlagUserSnapshot      = "innerBloomUser"
)

// DateLayout is the date-only format of date-scoped flags.
const DateLayout = "2006-01-02"
