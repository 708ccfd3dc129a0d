package services

// Broadcaster fans an event out to every connection bound to a session
// channel. Implemented by realtime.Manager; sessions without live
// connections are a no-op.
type Broadcaster interface {
	Broadcast(sessionID, event string, payload interface{})
}
