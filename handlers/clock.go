package handlers

import "time"

// now is the handlers' clock. Tests may replace it to pin the visibility
// cutoff.
var now = time.Now
