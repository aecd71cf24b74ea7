// Package mqtt provides MQTT connectivity for the theme sender and the
// override CLI.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS and topic validation
//   - Subscriptions that are restored after every reconnect
//   - An optional retained online/offline status with a Last Will
//
// # Topics
//
// Three configurable topics make up the protocol:
//
//	neiam/sync/theme            {"theme":"light","data":"2024-06-01T08:00:00Z"}
//	neiam/sync/theme/override   raw override value, used verbatim
//	neiam/sync/theme/revert     any payload; conventionally "revert"
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, mqtt.WithStatusTopic(topics.Status()))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Publish(topics.Theme(), payload, 1, false)
//
// Publish failures wrap ErrPublishFailed or are ErrNotConnected; both are
// transport errors that callers log and move past.
package mqtt
