// Package theme defines the solar phases and the theme label each one publishes.
package theme
