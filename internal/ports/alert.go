package ports

// Alerter plays the audible signal when a countdown finishes.
type Alerter interface {
	Alert() error
}
