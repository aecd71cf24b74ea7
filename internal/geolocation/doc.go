// Package geolocation determines where the sender runs, either from static
// configuration or from an IP geolocation lookup made once at startup.
package geolocation
