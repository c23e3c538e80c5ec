// Package events streams run lifecycle events to an external sink.
//
// Reporter implements scheduler.Observer. It turns every notification into
// an Event and hands it to a background goroutine through a bounded buffer,
// so a slow or unreachable sink never holds up scheduling; events that do
// not fit are dropped and counted. Sinks are selected by URL scheme:
//
//	amqp://, amqps://          RabbitMQ topic exchange
//	http://, https://, ws://, wss://   socket.io namespace
//	file://                     JSON lines appended to a local file
package events
