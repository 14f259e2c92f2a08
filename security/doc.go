// Package security holds the TLS trust configuration shared by restkit
// transports. A TLSConfig acts as the certificate-validator handle a caller
// hands to the rest client: it describes which roots to trust, which client
// certificate to present, and optional custom peer verification.
package security
