package config

// NewAppConfigForTest creates an AppConfig bound to a config file path
func NewAppConfigForTest(path string) *AppConfig {
	return &AppConfig{path: path}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, databaseID string) *Repository {
	return &Repository{
		backend:    backend,
		projectID:  projectID,
		databaseID: databaseID,
	}
}

// NewSnapshotForTest creates a Snapshot config for testing purposes
func NewSnapshotForTest(dir string) *Snapshot {
	return &Snapshot{dir: dir}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
