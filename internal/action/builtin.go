package action

// Default returns the built-in vocabulary: the legacy v2 control and query
// actions plus the payload v3 directives.
func Default() *Vocabulary {
	v, err := NewVocabulary(builtin()...)
	if err != nil {
		// builtin() is static; a duplicate here is a programming error.
		panic(err)
	}
	return v
}

func builtin() []Action {
	return []Action{
		// Legacy v2 control
		{Name: "turnOn", Namespace: NamespaceLegacy, Response: "TurnOnConfirmation"},
		{Name: "turnOff", Namespace: NamespaceLegacy, Response: "TurnOffConfirmation"},
		{Name: "setPercentage", Namespace: NamespaceLegacy, Response: "SetPercentageConfirmation"},
		{Name: "incrementPercentage", Namespace: NamespaceLegacy, Response: "IncrementPercentageConfirmation"},
		{Name: "decrementPercentage", Namespace: NamespaceLegacy, Response: "DecrementPercentageConfirmation"},
		{Name: "setTargetTemperature", Namespace: NamespaceLegacy, Response: "SetTargetTemperatureConfirmation"},
		{Name: "incrementTargetTemperature", Namespace: NamespaceLegacy, Response: "IncrementTargetTemperatureConfirmation"},
		{Name: "decrementTargetTemperature", Namespace: NamespaceLegacy, Response: "DecrementTargetTemperatureConfirmation"},
		{Name: "setLockState", Namespace: NamespaceLegacy, Response: "SetLockStateConfirmation"},
		{Name: "setColor", Namespace: NamespaceLegacy, Response: "SetColorConfirmation"},
		{Name: "setColorTemperature", Namespace: NamespaceLegacy, Response: "SetColorTemperatureConfirmation"},
		{Name: "incrementColorTemperature", Namespace: NamespaceLegacy, Response: "IncrementColorTemperatureConfirmation"},
		{Name: "decrementColorTemperature", Namespace: NamespaceLegacy, Response: "DecrementColorTemperatureConfirmation"},

		// Legacy v2 query
		{Name: "getTargetTemperature", Namespace: NamespaceLegacyQuery, Response: "GetTargetTemperatureResponse"},
		{Name: "getTemperatureReading", Namespace: NamespaceLegacyQuery, Response: "GetTemperatureReadingResponse"},
		{Name: "getLockState", Namespace: NamespaceLegacyQuery, Response: "GetLockStateResponse"},

		// Payload v3
		{Name: "TurnOn", Namespace: NamespacePower, Response: "Response"},
		{Name: "TurnOff", Namespace: NamespacePower, Response: "Response"},
		{Name: "SetBrightness", Namespace: NamespaceBrightness, Response: "Response"},
		{Name: "AdjustBrightness", Namespace: NamespaceBrightness, Response: "Response"},
		{Name: "SetPercentage", Namespace: NamespacePercentage, Response: "Response"},
		{Name: "AdjustPercentage", Namespace: NamespacePercentage, Response: "Response"},
		{Name: "SetColor", Namespace: NamespaceColor, Response: "Response"},
		{Name: "SetColorTemperature", Namespace: NamespaceColorTemp, Response: "Response"},
		{Name: "IncreaseColorTemperature", Namespace: NamespaceColorTemp, Response: "Response"},
		{Name: "DecreaseColorTemperature", Namespace: NamespaceColorTemp, Response: "Response"},
		{Name: "SetTargetTemperature", Namespace: NamespaceThermostat, Response: "Response"},
		{Name: "AdjustTargetTemperature", Namespace: NamespaceThermostat, Response: "Response"},
		{Name: "SetThermostatMode", Namespace: NamespaceThermostat, Response: "Response"},
		{Name: "ReportTemperature", Namespace: NamespaceTemperature, Response: "StateReport"},
		{Name: "Lock", Namespace: NamespaceLock, Response: "Response"},
		{Name: "Unlock", Namespace: NamespaceLock, Response: "Response"},
		{Name: "ReportLockState", Namespace: NamespaceLock, Response: "StateReport"},
		{Name: "InitializeCameraStreams", Namespace: NamespaceCameraStream, Response: "Response"},
		{Name: "SetVolume", Namespace: NamespaceSpeaker, Response: "Response"},
		{Name: "AdjustVolume", Namespace: NamespaceSpeaker, Response: "Response"},
		{Name: "SetMute", Namespace: NamespaceSpeaker, Response: "Response"},
		{Name: "SetRangeValue", Namespace: NamespaceRange, Response: "Response"},
		{Name: "AdjustRangeValue", Namespace: NamespaceRange, Response: "Response"},
		{Name: "Activate", Namespace: NamespaceSceneController, Response: "ActivationStarted"},
		{Name: "Deactivate", Namespace: NamespaceSceneController, Response: "DeactivationStarted"},
	}
}
