// Package mqtt provides MQTT connectivity for the Alexa bridge.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Retained publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Announcing the compiled device catalogue
//
// # Topics
//
// Every topic lives under the configured prefix (default graylogic/alexa):
//
//	<prefix>/status          online/offline, retained, LWT
//	<prefix>/devices         catalogue summary, retained
//	<prefix>/device/<id>     one device with its action bindings, retained
//
// # Security Considerations
//
//   - TLS should be enabled for non-local brokers (cfg.Broker.TLS=true)
//   - Camera credentials are never part of a published payload
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	announcer := mqtt.NewAnnouncer(client, client.Topics())
//	err = announcer.Announce(ctx, registry, stats)
package mqtt
