// Package influxdb writes theme telemetry to InfluxDB v2.
//
// It wraps influxdb-client-go with a ping on connect, batched non-blocking
// writes and an error callback for failed batches:
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.SetOnError(func(err error) { log.Warn("influx write failed", "error", err) })
//	client.WritePoint("theme_publication", tags, fields, time.Now())
package influxdb
