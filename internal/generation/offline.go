package generation

import (
	"fmt"
	"unicode/utf16"

	"cyoa-server/shared/models"
)

var offlineScenes = [...]string{
	"corridor lit by pulsing blue strips",
	"hangar bay humming with distant engines",
	"command deck awash in holograms",
	"observation dome above a storm-wracked gas giant",
}

// HashCode is the classic 31-multiplier string hash over UTF-16 code units,
// computed in wrapping 32-bit arithmetic. The absolute value is returned, so the
// result is in [0, 2^31].
func HashCode(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// OfflineScene produces a deterministic scene from the prompt alone.
func OfflineScene(prompt string) models.Scene {
	scene := offlineScenes[HashCode(prompt)%int64(len(offlineScenes))]
	return models.Scene{
		StoryText: fmt.Sprintf("You steady your breath. The %s sharpens into focus. "+
			"Systems whisper status updates along your HUD as the ship drifts. Ahead, a decision waits.", scene),
		Choices: []string{
			"Route power to scanners",
			"Call the bridge",
			"Slip into the maintenance shaft",
		},
		ImagePrompt: "cinematic sci-fi still of " + scene,
	}
}
