// Package timeutil pins the service to Japan Standard Time (UTC+9, no DST).
// Intake forms, mentoring slots, and sync schedules all live in JST.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// JST is the Japan Standard Time zone (UTC+9, constant year-round). It backs
// the configured timezone on container images without tzdata, where
// time.LoadLocation("Asia/Tokyo") fails.
var JST = time.FixedZone("Asia/Tokyo", 9*60*60)
