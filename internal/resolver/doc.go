// Package resolver decides the theme value to publish: the solar label for the
// current phase, or an operator override until the next solar boundary.
package resolver
