// Package quiz implements the in-session quiz engine: question progression,
// the per-question countdown, the post-answer reveal delay and scoring.
//
// A Session is driven by exactly three stimuli: the once-per-second countdown
// tick, a player's answer selection, and the delayed auto-advance after an
// answer is revealed. All three are serialised on the session's lock, and
// every timer callback carries the epoch it was armed in; a callback whose
// epoch is stale is dropped. When the countdown reaches zero before an answer
// arrives, the timeout owns the transition and the late answer is rejected.
package quiz
