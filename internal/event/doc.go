// Package event provides the action bus connecting keybinding dispatch to
// application features. Dispatch publishes a notification when a bound combo
// fires; features and plugins subscribe to the actions they implement.
//
// Delivery is synchronous and in registration order. A listener that panics
// or returns an error never prevents delivery to the listeners after it.
package event
