package noteapp

// Command represents a discrete application operation with its specific
// configuration. Commands are produced by Parse from CLI arguments and
// dispatched by Main; keeping them as values makes the whole entry path
// callable from tests without building the binary.
type Command interface {
	// Name returns the command identifier used for routing.
	Name() string
}

// RunCommand starts the HTTP server. All of its configuration lives on
// the shared [Config]; the struct exists so new server-only options have
// somewhere to go without touching Parse's signature.
type RunCommand struct{}

func (c *RunCommand) Name() string { return "run" }

// MigrateCommand initializes the active backend's schema. For PostgreSQL
// this runs GORM AutoMigrate; for SurrealDB it asserts the unique email
// index; for the memory store it is a no-op. Safe to run repeatedly.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string { return "migrate" }
