// Package infra contains technical adapters: the history stores, the MQTT
// observation feed, and the metrics exporters. These packages depend only on
// the interfaces defined in the core packages.
package infra
