// Package override carries operator override commands from MQTT to the
// theme resolver.
//
// The Listener subscribes to the override and revert topics and pushes
// commands into a Mailbox; the publish loop drains the Mailbox once per
// cycle. Only the most recent undrained command survives.
package override
