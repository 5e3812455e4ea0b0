// Package sensor implements the measurable entity at the centre of sensorwatch.
//
// A Sensor owns its policy (see package policy), its latest measurement and an
// ordered list of non-owning Observer references. One Observer may watch many
// sensors.
//
// Sensor.Update(v) stores v, evaluates the policy and runs one NotifyAll pass
// per violation. Delivery is synchronous and follows subscription order.
// Failures are isolated per observer: errors and panics are wrapped in
// *DispatchError, logged, and joined into Update's return value.
//
// Subscribe never deduplicates; Unsubscribe removes the first matching entry.
package sensor
