package reconcile

import (
	"fmt"
	"time"
)

// Classification is the availability bucket of a series' next season.
type Classification int

const (
	Unknown Classification = iota
	AlreadyOut
	ComingSoon
	ComingLater
)

func (c Classification) String() string {
	switch c {
	case AlreadyOut:
		return "already_out"
	case ComingSoon:
		return "coming_soon"
	case ComingLater:
		return "coming_later"
	default:
		return "unknown"
	}
}

// Reason qualifies an Unknown classification.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNoNewSeason      Reason = "no new season found"
	ReasonDateUndetermined Reason = "announced, date undetermined"
	ReasonMigrated         Reason = "migrated to tmdb"
	ReasonMigrationSkipped Reason = "migration skipped"
	ReasonError            Reason = "error"
)

// DefaultSoonWindow separates ComingSoon from ComingLater.
const DefaultSoonWindow = 90 * 24 * time.Hour

const messageDateLayout = "January 2, 2006"

// Classify buckets a release date relative to now. A date at or before now
// is already out; [now, now+window) is soon; anything later is later.
func Classify(release, now time.Time, window time.Duration) Classification {
	if window <= 0 {
		window = DefaultSoonWindow
	}
	switch {
	case !release.After(now):
		return AlreadyOut
	case release.Before(now.Add(window)):
		return ComingSoon
	default:
		return ComingLater
	}
}

// Notifies reports whether a classification is pushed to the notification
// sink. ComingSoon is optional.
func Notifies(c Classification, notifySoon bool) bool {
	switch c {
	case AlreadyOut:
		return true
	case ComingSoon:
		return notifySoon
	default:
		return false
	}
}

func availabilityMessage(c Classification, season int, title string, release time.Time) string {
	switch c {
	case AlreadyOut:
		return fmt.Sprintf("Season %d of %s is out already!", season, title)
	case ComingSoon:
		return fmt.Sprintf("Season %d of %s is not yet out but will be released on %s.", season, title, release.Format(messageDateLayout))
	default:
		return fmt.Sprintf("Season %d of %s coming up, in more than three months", season, title)
	}
}

func noSeasonMessage(season int, title string) string {
	return fmt.Sprintf("No season %d found for %s", season, title)
}

func undeterminedMessage(season int, title string) string {
	return fmt.Sprintf("Season %d of %s is announced but there is no release date yet", season, title)
}
