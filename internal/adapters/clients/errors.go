// Package clients provides the signed HTTP transport shared by the vendor adapters.
package clients

import "errors"

// ErrTransport marks a failure to obtain any response from the vendor:
// DNS, dial, TLS, connect or total timeout, or a broken body read.
// It is infrastructure-level and is translated to a domain connection
// error by the acl package.
var ErrTransport = errors.New("vendor transport failure")
