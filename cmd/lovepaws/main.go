// Lovepaws serves the Love Paws API, an HTTP gateway that relays chat
// messages addressed to a cat persona to an LLM completion service.
//
// Usage:
//
//	# Start the server with defaults (credential read from
//	# conf/private/api_key/api_key.json under the working directory)
//	lovepaws run
//
//	# Start with a configuration file and installation root
//	lovepaws run --config /etc/lovepaws/config.yaml --root /opt/lovepaws
//
//	# Check that the credential loads
//	lovepaws credential check
//
//	# Show version information
//	lovepaws version
package main

func main() {
	Execute()
}
