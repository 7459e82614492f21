// Package influxdb records catalogue build statistics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched point writes and health monitoring.
//
// # Measurements
//
//   - alexa_catalogue: one point per build (entries, compiled, skipped,
//     rejected, devices, aliases, aliases_skipped), tagged by site
//   - alexa_action: devices supporting each action, tagged by site and action
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	// Recorder satisfies catalogue.Announcer.
//	recorder := influxdb.NewRecorder(client, cfg.Site.ID)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via the
// SetOnError callback, wrapped in ErrWriteFailed. Connection and health
// check errors are returned directly.
package influxdb
