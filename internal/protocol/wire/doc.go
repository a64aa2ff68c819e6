// Package wire encodes and decodes the JSON text frames exchanged between
// ringchat clients and the relay.
//
// Every frame is a JSON object with a string "type" discriminator. Decode
// maps a raw frame onto the matching domain struct; Encode does the reverse,
// adding the discriminator to the marshalled body.
package wire
