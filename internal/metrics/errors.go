package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorKind is the closed set of categories a failed request is filed under.
type ErrorKind string

const (
	ErrorKindTransport ErrorKind = "TransportError"
	ErrorKindTimeout   ErrorKind = "TimeoutError"
	ErrorKindProtocol  ErrorKind = "ProtocolError"
	ErrorKindOther     ErrorKind = "OtherError"
)

// ErrorKinds lists every category in report order.
var ErrorKinds = []ErrorKind{
	ErrorKindTransport,
	ErrorKindTimeout,
	ErrorKindProtocol,
	ErrorKindOther,
}

// Transient reports whether errors of this kind are worth retrying.
func (k ErrorKind) Transient() bool {
	return k == ErrorKindTransport || k == ErrorKindTimeout
}

// RequestError tags a request failure with its category at the point it was caught.
type RequestError struct {
	Kind ErrorKind
	Err  error
}

func (e *RequestError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Tag wraps err as a RequestError, classifying it unless it already carries a kind.
func Tag(err error) *RequestError {
	if err == nil {
		return nil
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return &RequestError{Kind: Classify(err), Err: err}
}

// KindOf returns the category of err, honoring an existing RequestError tag.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return Classify(err)
}

// IsTransient reports whether err is a transport-level failure that may
// succeed on another attempt.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(err).Transient()
}

// Classify maps a Go error onto an ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrorKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}

	var (
		certErr    *tls.CertificateVerificationError
		recordErr  tls.RecordHeaderError
		unknownCA  x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &certErr), errors.As(err, &recordErr),
		errors.As(err, &unknownCA), errors.As(err, &hostErr), errors.As(err, &invalidErr):
		return ErrorKindProtocol
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) || errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrorKindTransport
	}
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return ErrorKindTransport
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ErrorKindProtocol
	}
	return ErrorKindOther
}
