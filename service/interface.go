package service

// Service is a long-lived subsystem owned by a Hub: the tone backend,
// the best-score store or the status endpoint
//
// The hub calls Init with the args given to Register, in dependency order,
// then Start on every service, and finally Stop in reverse start order.
// A service whose preferred backend is unavailable should degrade in Init
// rather than fail, so the game keeps running without it.
type Service interface {
	// Name is the registration key other services list as a dependency
	Name() string

	// Dependencies names services that must be initialized first
	Dependencies() []string

	Init(args ...any) error
	Start() error

	// Stop is called once for each successful Start
	Stop() error
}
