package display

// DetectModeFor exposes detectMode to the external tests.
var DetectModeFor = detectMode
