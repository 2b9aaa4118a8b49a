package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channel, dashboardURL string) *Slack {
	return &Slack{
		botToken:     botToken,
		channel:      channel,
		dashboardURL: dashboardURL,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, gcsBucket, driveFolderID string) *Storage {
	return &Storage{backend: backend, gcsBucket: gcsBucket, driveFolderID: driveFolderID}
}

// NewCredentialForTest creates a Credential config for testing purposes
func NewCredentialForTest(file, json string) *Credential {
	return &Credential{file: file, json: json}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}

// NewAppConfigForTest creates an AppConfig bound to path
func NewAppConfigForTest(path string) *AppConfig {
	return &AppConfig{path: path}
}
