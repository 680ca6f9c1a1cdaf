package testutil

import "time"

// FixedNow is a stable clock reading for tests that depend on "today".
var FixedNow = time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC)
