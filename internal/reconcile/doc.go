// Package reconcile compares locally tracked progress with provider data.
//
// SeasonReconciler walks every tracked series once per invocation. For a
// series watched up to season n it asks the TV gateway whether season n+1
// exists and when it premieres, classifies the answer and writes the record
// back. Series still keyed by an IMDb id are migrated to TMDB ids first when
// the TMDB gateway is active; a migration pass performs no availability check.
//
// MusicReconciler indexes each followed artist's discography. The first pass
// for a newly added artist silently records the whole back catalog so only
// releases that appear afterwards produce notifications.
//
// Both reconcilers return explicit result lists; Dispatcher prints them and
// forwards the notifiable ones to a notifications.Sink. Only storage and
// configuration failures abort a pass. Provider, payload and date errors are
// reported on the affected item and the loop continues.
package reconcile
