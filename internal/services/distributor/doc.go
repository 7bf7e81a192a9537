// Package distributor integrates with the digital distribution partner's
// delivery API. Send-to-digital registers the release; without credentials
// the service degrades to a no-op so local workflows keep moving.
package distributor
