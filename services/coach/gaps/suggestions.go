// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gaps

import (
	"fmt"
	"strings"
)

// suggestion holds remediation text for a feature, split by the
// direction of the deviation.
type suggestion struct {
	high string
	low  string
}

// suggestions maps known feature names to remediation hints. Unknown
// features fall through to a generic hint built from the feature name.
var suggestions = map[string]suggestion{
	"bass_energy": {
		high: "reduce low-end energy with a high-pass filter or a cut around 60-120 Hz",
		low:  "boost the low end with a shelf below 120 Hz or bring up bass and kick levels",
	},
	"high_energy": {
		high: "tame the highs with a gentle shelf cut above 8 kHz or de-essing",
		low:  "open up the top end with a high shelf boost above 8 kHz",
	},
	"mid_energy": {
		high: "carve out competing midrange around 250-500 Hz to reduce mud",
		low:  "add body with a broad midrange boost around 500 Hz-2 kHz",
	},
	"loudness": {
		high: "back off the limiter or bus compression to restore dynamics",
		low:  "raise the overall level or push the master bus harder",
	},
	"dynamic_range": {
		high: "apply gentle bus compression to glue the mix together",
		low:  "ease off compression and limiting to let transients through",
	},
	"stereo_width": {
		high: "narrow the stereo image, especially below 200 Hz, to keep the mix mono-compatible",
		low:  "widen the mix with panning, stereo doubling, or a touch of spread on pads",
	},
	"vocal_presence": {
		high: "pull the vocal back a touch or soften its presence boost around 3-5 kHz",
		low:  "lift the vocal with a presence boost around 3-5 kHz or automation",
	},
	"punch": {
		high: "soften transient shaping on drums so the mix breathes",
		low:  "add punch with transient shaping or faster compressor release on drums",
	},
}

// suggestionFor returns a remediation hint for the feature given its
// signed normalized deviation.
func suggestionFor(feature string, deviation float64) string {
	if s, ok := suggestions[feature]; ok {
		if deviation > 0 {
			return s.high
		}
		return s.low
	}

	name := strings.ReplaceAll(feature, "_", " ")
	if deviation > 0 {
		return fmt.Sprintf("reduce %s to move closer to the reference", name)
	}
	return fmt.Sprintf("increase %s to move closer to the reference", name)
}
