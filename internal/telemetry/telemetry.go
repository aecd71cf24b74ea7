// Package telemetry turns publish cycles into time-series points.
package telemetry

import (
	"context"
	"time"

	"github.com/neiam/theme-sender/internal/publisher"
	"github.com/neiam/theme-sender/internal/resolver"
)

// Measurement is the InfluxDB measurement written for every cycle.
const Measurement = "theme_publication"

// PointWriter queues a point. *influxdb.Client implements it.
type PointWriter interface {
	WritePoint(measurement string, tags map[string]string, fields map[string]any, ts time.Time)
}

// Observer writes one point per publish cycle, successful or not.
type Observer struct {
	w PointWriter
}

// NewObserver creates an observer writing to w.
func NewObserver(w PointWriter) *Observer {
	return &Observer{w: w}
}

// ThemePublished implements publisher.Observer.
func (o *Observer) ThemePublished(_ context.Context, p publisher.Publication) {
	tags, fields := Point(p)
	o.w.WritePoint(Measurement, tags, fields, p.Message.Data)
}

// CustomThemeTag replaces the theme tag while an override is published.
// Override values are free-form, so they are kept out of the series key.
const CustomThemeTag = "custom"

// Point returns the tags and fields recorded for p. The published value is
// always the "value" field; the "theme" tag is the solar label or
// CustomThemeTag.
func Point(p publisher.Publication) (tags map[string]string, fields map[string]any) {
	override := p.Source == resolver.SourceOverride

	themeTag := p.Message.Theme
	if override {
		themeTag = CustomThemeTag
	}

	tags = map[string]string{
		"theme":  themeTag,
		"source": string(p.Source),
		"phase":  p.Phase.Theme.String(),
	}
	fields = map[string]any{
		"value":           p.Message.Theme,
		"changed":         p.Changed,
		"override_active": override,
		"publish_ok":      p.Err == nil,
	}
	return tags, fields
}
